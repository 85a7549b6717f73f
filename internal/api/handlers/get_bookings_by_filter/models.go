package get_bookings_by_filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// FilterRequest параметры фильтра из query-строки
// nil означает отсутствие ограничения
type FilterRequest struct {
	CompanyID *int64   // empresaId
	UserID    *int64   // usuarioId
	Statuses  []string // status, через запятую
	RoomID    *int64   // salaId
	Day       *int     // dia
	StartTime *string  // hinicio
	EndTime   *string  // hfim
	Date      *string  // data
	Text      *string  // texto
}

// ToServiceRequest извлекает фильтр из query-параметров
// Чистая функция: пустые, нечисловые и неположительные числа дают nil,
// статусы разбиваются по запятой, текстовые поля передаются как есть
func ToServiceRequest(query url.Values) FilterRequest {
	return FilterRequest{
		CompanyID: parseID(query.Get("empresaId")),
		UserID:    parseID(query.Get("usuarioId")),
		Statuses:  splitStatuses(query.Get("status")),
		RoomID:    parseID(query.Get("salaId")),
		Day:       parseDay(query.Get("dia")),
		StartTime: optionalString(query.Get("hinicio")),
		EndTime:   optionalString(query.Get("hfim")),
		Date:      optionalString(query.Get("data")),
		Text:      optionalString(query.Get("texto")),
	}
}

// ToDomain проверяет текстовые поля и строит domain фильтр
func (f FilterRequest) ToDomain() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		CompanyID: f.CompanyID,
		UserID:    f.UserID,
		RoomID:    f.RoomID,
		Day:       f.Day,
		Text:      f.Text,
		Statuses:  make([]domain.BookingStatus, 0, len(f.Statuses)),
	}

	for _, s := range f.Statuses {
		filter.Statuses = append(filter.Statuses, domain.BookingStatus(strings.ToUpper(s)))
	}

	if f.StartTime != nil {
		t, err := types.NewTimeStringFromString(*f.StartTime)
		if err != nil {
			return filter, fmt.Errorf("%w: hinicio: %v", domain.ErrInvalidInput, err)
		}
		filter.StartTime = &t
	}

	if f.EndTime != nil {
		t, err := types.NewTimeStringFromString(*f.EndTime)
		if err != nil {
			return filter, fmt.Errorf("%w: hfim: %v", domain.ErrInvalidInput, err)
		}
		filter.EndTime = &t
	}

	if f.Date != nil {
		d, err := parseDate(*f.Date)
		if err != nil {
			return filter, fmt.Errorf("%w: data %q must be YYYY-MM-DD", domain.ErrInvalidInput, *f.Date)
		}
		filter.Date = &d
	}

	return filter, nil
}

func parseID(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func parseDay(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func splitStatuses(s string) []string {
	statuses := make([]string, 0)
	if s == "" {
		return statuses
	}

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			statuses = append(statuses, part)
		}
	}
	return statuses
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate принимает YYYY-MM-DD, а также полную дату RFC3339
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(domain.DateFormat, s); err == nil {
		return d, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
