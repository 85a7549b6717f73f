package download_report

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/reports"
)

const msgFileNotFound = "Arquivo não encontrado."

type Handler struct {
	store  ReportStore
	logger Logger
}

func NewHandler(store ReportStore, logger Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Handle GET /reserva/report/download/{filename}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	file, info, err := h.store.Open(filename)
	if err != nil {
		if errors.Is(err, reports.ErrFileNotFound) {
			h.logger.Warn("GET /reserva/report/download - File not found: %q", filename)
			handlers.RespondNotFound(w, msgFileNotFound)
			return
		}
		h.logger.Error("GET /reserva/report/download - Failed to open %q: %v", filename, err)
		handlers.RespondInternalError(w)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))

	h.logger.Info("GET /reserva/report/download - Serving %q (%d bytes)", filename, info.Size())
	http.ServeContent(w, r, filename, info.ModTime(), file)
}
