package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

var (
	// ErrValidation возвращается, когда тело запроса не прошло проверку
	ErrValidation = errors.New("validation failed")
)

// Request модели

// CreateBookingRequest запрос на создание бронирования
type CreateBookingRequest struct {
	RoomID      int64   `json:"salaId"`
	UserID      int64   `json:"usuarioId"`
	CompanyID   int64   `json:"empresaId"`
	Status      string  `json:"status,omitempty"` // по умолчанию PENDING
	Date        string  `json:"data"`             // "2025-10-15"
	StartTime   string  `json:"horaInicio"`       // "10:00"
	EndTime     string  `json:"horaFim"`          // "11:30"
	Title       string  `json:"titulo"`
	Description *string `json:"descricao,omitempty"`
}

// ToDomain проверяет запрос и конвертирует его в domain модель
func (r *CreateBookingRequest) ToDomain() (*domain.Booking, error) {
	if r.RoomID <= 0 || r.UserID <= 0 || r.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: salaId, usuarioId and empresaId must be positive", ErrValidation)
	}

	status := domain.StatusPending
	if r.Status != "" {
		parsed, err := ToDomainBookingStatus(r.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	start, err := parseTime("horaInicio", r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("horaFim", r.EndTime)
	if err != nil {
		return nil, err
	}
	if err := ValidateTimeRange(start, end); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(r.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(r.Description); err != nil {
		return nil, err
	}

	return &domain.Booking{
		RoomID:      r.RoomID,
		UserID:      r.UserID,
		CompanyID:   r.CompanyID,
		Status:      status,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Title:       title,
		Description: r.Description,
	}, nil
}

// UpdateBookingRequest запрос на частичное обновление бронирования
// Отсутствующие поля не изменяются
type UpdateBookingRequest struct {
	RoomID      *int64  `json:"salaId,omitempty"`
	UserID      *int64  `json:"usuarioId,omitempty"`
	CompanyID   *int64  `json:"empresaId,omitempty"`
	Status      *string `json:"status,omitempty"`
	Date        *string `json:"data,omitempty"`
	StartTime   *string `json:"horaInicio,omitempty"`
	EndTime     *string `json:"horaFim,omitempty"`
	Title       *string `json:"titulo,omitempty"`
	Description *string `json:"descricao,omitempty"`
}

// ToDomainPatch проверяет переданные поля и конвертирует запрос в патч
// Проверка порядка времени начала и окончания выполняется сервисом,
// так как одно из значений может браться из текущей записи
func (r *UpdateBookingRequest) ToDomainPatch() (domain.BookingPatch, error) {
	var patch domain.BookingPatch

	for name, id := range map[string]*int64{"salaId": r.RoomID, "usuarioId": r.UserID, "empresaId": r.CompanyID} {
		if id != nil && *id <= 0 {
			return patch, fmt.Errorf("%w: %s must be positive", ErrValidation, name)
		}
	}
	patch.RoomID = r.RoomID
	patch.UserID = r.UserID
	patch.CompanyID = r.CompanyID

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}

	if r.Date != nil {
		date, err := ParseDate(*r.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}

	if r.StartTime != nil {
		start, err := parseTime("horaInicio", *r.StartTime)
		if err != nil {
			return patch, err
		}
		patch.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := parseTime("horaFim", *r.EndTime)
		if err != nil {
			return patch, err
		}
		patch.EndTime = &end
	}

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if err := validateTitle(title); err != nil {
			return patch, err
		}
		patch.Title = &title
	}

	if err := validateDescription(r.Description); err != nil {
		return patch, err
	}
	patch.Description = r.Description

	return patch, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64   `json:"id"`
	RoomID      int64   `json:"salaId"`
	UserID      int64   `json:"usuarioId"`
	CompanyID   int64   `json:"empresaId"`
	Status      string  `json:"status"`
	Date        string  `json:"data"`       // "2025-10-15"
	StartTime   string  `json:"horaInicio"` // "10:00"
	EndTime     string  `json:"horaFim"`
	Title       string  `json:"titulo"`
	Description *string `json:"descricao,omitempty"`

	// Денормализованные данные
	RoomName    string `json:"sala,omitempty"`
	UserName    string `json:"usuario,omitempty"`
	CompanyName string `json:"empresa,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingPageResponse страница результатов поиска и общее количество совпадений
type BookingPageResponse struct {
	Data  []BookingResponse `json:"data"`
	Total int64             `json:"total"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		RoomID:      b.RoomID,
		UserID:      b.UserID,
		CompanyID:   b.CompanyID,
		Status:      string(b.Status),
		Date:        b.Date.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		Title:       b.Title,
		Description: b.Description,
		RoomName:    b.RoomName,
		UserName:    b.UserName,
		CompanyName: b.CompanyName,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
// Для nil возвращает пустой слайс, чтобы в JSON был [], а не null
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp = append(resp, *bookingResp)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s, nil
}

// ParseDate разбирает дату в формате YYYY-MM-DD (UTC)
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, s)
	}
	return date, nil
}

// ValidateTimeRange проверяет, что окончание позже начала
func ValidateTimeRange(start, end types.TimeString) error {
	before, err := start.Before(end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !before {
		return fmt.Errorf("%w: horaFim %s must be after horaInicio %s", ErrValidation, end, start)
	}
	return nil
}

func parseTime(field, s string) (types.TimeString, error) {
	t, err := types.NewTimeStringFromString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	return t, nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: titulo is required", ErrValidation)
	}
	if len([]rune(title)) > domain.MaxTitleLength {
		return fmt.Errorf("%w: titulo exceeds %d characters", ErrValidation, domain.MaxTitleLength)
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && len([]rune(*description)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: descricao exceeds %d characters", ErrValidation, domain.MaxDescriptionLength)
	}
	return nil
}
