package list_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const msgFindAll = "findAll"

type Handler struct {
	service     BookingService
	defaultSize int
	maxSize     int
	logger      Logger
}

func NewHandler(service BookingService, defaultSize, maxSize int, logger Logger) *Handler {
	return &Handler{
		service:     service,
		defaultSize: defaultSize,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// Handle GET /reserva
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page := handlers.ParsePagination(r.URL.Query(), h.defaultSize, h.maxSize)

	result, err := h.service.List(r.Context(), page)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /reserva", err)
		return
	}

	h.logger.Info("GET /reserva - %d bookings returned (page=%d, size=%d)", len(result), page.Page, page.Size)
	handlers.RespondData(w, http.StatusOK, result, msgFindAll)
}
