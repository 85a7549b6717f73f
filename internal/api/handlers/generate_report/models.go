package generate_report

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	generateReport "github.com/m04kA/SMC-RoomBookingService/internal/usecase/generate_report"
)

// GenerateReportRequest тело запроса POST /reserva/report/generate
type GenerateReportRequest struct {
	UserID *int64 `json:"usuarioId"`
	Start  string `json:"start"` // "2025-01-01" или RFC3339
	End    string `json:"end"`
}

// GenerateReportResponse ответ об успешной генерации
type GenerateReportResponse struct {
	OK      bool                       `json:"ok"`
	Message string                     `json:"message"`
	Email   *domain.NotificationResult `json:"email"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateReportRequest) ToUseCaseRequest(user domain.AuthUser, baseURL string) *generateReport.Request {
	return &generateReport.Request{
		User:    user,
		UserID:  r.UserID,
		Start:   r.Start,
		End:     r.End,
		BaseURL: baseURL,
	}
}
