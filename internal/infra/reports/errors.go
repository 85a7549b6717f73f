package reports

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrFileNotFound файл отчёта отсутствует или имя файла недопустимо
	ErrFileNotFound = fmt.Errorf("reports: file %w", domain.ErrNotFound)

	// ErrInvalidFilename имя файла содержит разделители пути
	ErrInvalidFilename = fmt.Errorf("reports: filename %w", domain.ErrInvalidInput)

	// ErrWrite ошибка записи отчёта на диск
	ErrWrite = errors.New("reports: write failed")
)
