package generate_report

import (
	"context"

	generateReport "github.com/m04kA/SMC-RoomBookingService/internal/usecase/generate_report"
)

type GenerateReportUseCase interface {
	Execute(ctx context.Context, req *generateReport.Request) (*generateReport.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
