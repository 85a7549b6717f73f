package get_room_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const (
	msgInvalidParams = "Sala, mês e ano devem ser numéricos."
	msgFound         = "findBookingByRoomAndDate"
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

// Handle GET /reserva/sala/{id}/{mes}/{ano}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	roomID, errRoom := strconv.ParseInt(vars["id"], 10, 64)
	month, errMonth := strconv.Atoi(vars["mes"])
	year, errYear := strconv.Atoi(vars["ano"])
	if errRoom != nil || errMonth != nil || errYear != nil {
		h.logger.Warn("GET /reserva/sala - Invalid params: room=%q, month=%q, year=%q", vars["id"], vars["mes"], vars["ano"])
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetByRoomAndMonth(r.Context(), roomID, month, year)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "GET /reserva/sala", err)
		return
	}

	handlers.RespondData(w, http.StatusOK, result, msgFound)
}
