package generate_report

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/reports"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountByFilter(ctx context.Context, filter domain.BookingFilter) (int64, error)
	ListChronological(ctx context.Context, filter domain.BookingFilter, limit, offset int) ([]*domain.Booking, error)
}

// ReportStore хранилище CSV-отчётов
type ReportStore interface {
	Create(filename string) (*reports.Writer, error)
}

// Notifier отправляет пользователю ссылку на готовый отчёт
type Notifier interface {
	Channel() string
	NotifyReportReady(ctx context.Context, recipient, url string) (*domain.NotificationResult, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики отчётов и уведомлений
type Metrics interface {
	ObserveReport(result string)
	ObserveNotification(channel, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
