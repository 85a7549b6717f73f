package delete_booking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const (
	msgInvalidBookingID = "ID de reserva inválido."
	msgDeleted          = "deleted"
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

// Handle DELETE /reserva/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("DELETE /reserva/{id} - Invalid booking ID: %q", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Delete(r.Context(), bookingID)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "DELETE /reserva/{id}", err)
		return
	}

	h.logger.Info("DELETE /reserva/{id} - Booking deleted: booking_id=%d", bookingID)
	handlers.RespondData(w, http.StatusOK, booking, msgDeleted)
}
