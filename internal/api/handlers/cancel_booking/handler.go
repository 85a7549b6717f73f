package cancel_booking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const (
	msgInvalidBookingID = "ID de reserva inválido."
	msgCancelled        = "cancelled"
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

// Handle PATCH /reserva/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /reserva/{id}/cancel - Invalid booking ID: %q", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "PATCH /reserva/{id}/cancel", err)
		return
	}

	h.logger.Info("PATCH /reserva/{id}/cancel - Booking cancelled: booking_id=%d", bookingID)
	handlers.RespondData(w, http.StatusOK, booking, msgCancelled)
}
