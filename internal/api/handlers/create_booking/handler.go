package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "Corpo da requisição inválido."
	msgCreated            = "created"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /reserva
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reserva - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /reserva", err)
		return
	}

	h.logger.Info("POST /reserva - Booking created: booking_id=%d, room_id=%d", booking.ID, booking.RoomID)
	handlers.RespondData(w, http.StatusCreated, booking, msgCreated)
}
