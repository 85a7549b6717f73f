package generate_report

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// parsePeriod разбирает границы периода и проверяет их порядок
func parsePeriod(start, end string) (time.Time, time.Time, error) {
	from, err := parseReportDate("start", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := parseReportDate("end", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidInput, to.Format(domain.DateFormat), from.Format(domain.DateFormat))
	}

	return from, to, nil
}

// parseReportDate принимает "YYYY-MM-DD" или RFC3339; время суток отбрасывается
func parseReportDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}

	if t, err := time.Parse(domain.DateFormat, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q must be YYYY-MM-DD or RFC3339", ErrInvalidInput, field, value)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// reportFilename имя файла отчёта за период
// Суффикс id делает имя уникальным и неугадываемым: ссылка на скачивание публичная
func reportFilename(from, to time.Time, id string) string {
	return fmt.Sprintf("Relatorio_Reservas_%s_a_%s_%s.csv",
		from.Format(domain.FileDateFormat), to.Format(domain.FileDateFormat), id)
}
