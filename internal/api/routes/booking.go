package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

// BookingPrefix префикс маршрутов бронирований
const BookingPrefix = "/reserva"

// Handler обработчик одной операции
type Handler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

// BookingHandlers обработчики всех операций с бронированиями
type BookingHandlers struct {
	List           Handler
	Get            Handler
	GetByRoom      Handler
	GetByFilter    Handler
	Create         Handler
	Update         Handler
	Delete         Handler
	Cancel         Handler
	DownloadReport Handler
	GenerateReport Handler
}

// RegisterBookingRoutes монтирует маршруты бронирований в r
// Скачивание отчёта публичное: ссылка уходит пользователю письмом,
// остальные маршруты закрыты middleware auth
func RegisterBookingRoutes(r *mux.Router, h BookingHandlers, auth mux.MiddlewareFunc) {
	base := r.PathPrefix(BookingPrefix).Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	base.HandleFunc("/report/download/{filename}", h.DownloadReport.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES
	// ============================================================

	protected := base.PathPrefix("").Subrouter()
	protected.Use(auth)

	// --- Отчёты ---
	protected.HandleFunc("/report/generate", h.GenerateReport.Handle).Methods(http.MethodPost)

	// --- Поиск ---
	protected.HandleFunc("/filter", h.GetByFilter.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sala/{id:[0-9]+}/{mes:[0-9]+}/{ano:[0-9]+}", h.GetByRoom.Handle).Methods(http.MethodGet)

	// --- CRUD ---
	protected.HandleFunc("", h.List.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/", h.List.Handle).Methods(http.MethodGet)
	protected.HandleFunc("", h.Create.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/", h.Create.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/{id:[0-9]+}", h.Get.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/{id:[0-9]+}", h.Update.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/{id:[0-9]+}", h.Delete.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/{id:[0-9]+}/cancel", h.Cancel.Handle).Methods(http.MethodPatch)
}
