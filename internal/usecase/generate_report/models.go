package generate_report

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// DownloadPath префикс маршрута скачивания отчёта
const DownloadPath = "/reserva/report/download/"

// Request модель запроса на генерацию отчёта
type Request struct {
	User    domain.AuthUser // Автор запроса, ему уходит уведомление
	UserID  *int64          // Фильтр по пользователю (usuarioId), опционально
	Start   string          // Начало периода: "2025-01-31" или RFC3339
	End     string          // Конец периода, включительно
	BaseURL string          // Схема и хост для ссылки на скачивание
}

// Response модель ответа
type Response struct {
	Filename     string
	URL          string
	Rows         int   // Записано строк
	Total        int64 // Найдено бронирований на момент начала выгрузки
	Notification *domain.NotificationResult
}
