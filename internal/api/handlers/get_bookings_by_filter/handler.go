package get_bookings_by_filter

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const msgFindByFilter = "findByFilter"

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

// Handle GET /reserva/filter
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := handlers.ParsePagination(query, h.defaultSize, h.maxSize)

	filter, err := ToServiceRequest(query).ToDomain()
	if err != nil {
		h.logger.Warn("GET /reserva/filter - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.GetByFilter(r.Context(), filter, page)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /reserva/filter", err)
		return
	}

	handlers.RespondData(w, http.StatusOK, result, msgFindByFilter)
}
