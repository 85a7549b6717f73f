package download_report

import (
	"io/fs"
	"os"
)

// ReportStore хранилище готовых отчётов
type ReportStore interface {
	Open(filename string) (*os.File, fs.FileInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
