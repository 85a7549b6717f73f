package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RespondServiceError единая точка преобразования ошибок сервисов в HTTP-ответ:
// domain.ErrNotFound - 404, domain.ErrInvalidInput - 400, domain.ErrForbidden - 403,
// остальное - 500 без подробностей
func RespondServiceError(w http.ResponseWriter, log Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Warn("%s - not found: %v", op, err)
		RespondNotFound(w, "")

	case errors.Is(err, domain.ErrInvalidInput):
		log.Warn("%s - invalid input: %v", op, err)
		RespondBadRequest(w, err.Error())

	case errors.Is(err, domain.ErrForbidden):
		log.Warn("%s - forbidden: %v", op, err)
		RespondForbidden(w, "")

	default:
		log.Error("%s - internal error: %v", op, err)
		RespondInternalError(w)
	}
}
