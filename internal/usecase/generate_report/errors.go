package generate_report

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректном периоде отчёта
	ErrInvalidInput = fmt.Errorf("generate_report: %w", domain.ErrInvalidInput)

	// ErrAccessDenied пользователь с доступом только к своей компании не привязан к компании
	ErrAccessDenied = fmt.Errorf("generate_report: %w", domain.ErrForbidden)

	// ErrExport возвращается при ошибке выгрузки данных в файл
	ErrExport = errors.New("generate_report: export failed")

	// ErrNotification возвращается, когда отчёт сформирован, но уведомление не отправлено
	ErrNotification = errors.New("generate_report: notification failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_report: internal error")
)
