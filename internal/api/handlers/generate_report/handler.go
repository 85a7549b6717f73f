package generate_report

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "Corpo da requisição inválido."
	msgMissingUser        = "Usuário não autenticado."
	msgReportGenerated    = "Relatório gerado com sucesso."
)

type Handler struct {
	useCase    GenerateReportUseCase
	trustProxy bool
	logger     Logger
}

func NewHandler(useCase GenerateReportUseCase, trustProxy bool, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		trustProxy: trustProxy,
		logger:     logger,
	}
}

// Handle POST /reserva/report/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("POST /reserva/report/generate - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req GenerateReportRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reserva/report/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(user, handlers.BaseURL(r, h.trustProxy)))
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /reserva/report/generate", err)
		return
	}

	h.logger.Info("POST /reserva/report/generate - Report %s generated for user_id=%d, rows=%d",
		result.Filename, user.ID, result.Rows)
	handlers.RespondJSON(w, http.StatusOK, GenerateReportResponse{
		OK:      true,
		Message: msgReportGenerated,
		Email:   result.Notification,
	})
}
