// Package bookingstest содержит in-memory реализации зависимостей сервиса
// бронирований для тестов пакетов, работающих поверх него
package bookingstest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
)

// Repository хранит бронирования в памяти
// Поддерживает фильтры по идентификаторам, статусам, датам и тексту в заголовке
type Repository struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]domain.Booking

	// Err, если задан, возвращается из всех методов
	Err error
}

func NewRepository() *Repository {
	return &Repository{nextID: 1, bookings: make(map[int64]domain.Booking)}
}

func (r *Repository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	now := time.Now().UTC()
	stored := *booking
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nextID++
	r.bookings[stored.ID] = stored

	booking.ID = stored.ID
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return booking, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *Repository) List(_ context.Context, page domain.Pagination) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	return paginate(r.matching(domain.BookingFilter{}), page.Skip, page.Take), nil
}

func (r *Repository) GetByRoomAndPeriod(_ context.Context, roomID int64, from, to time.Time) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	result := make([]*domain.Booking, 0)
	for _, b := range r.matching(domain.BookingFilter{RoomID: &roomID}) {
		if !b.Date.Before(from) && b.Date.Before(to) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *Repository) GetByFilter(_ context.Context, filter domain.BookingFilter, page domain.Pagination) ([]*domain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, 0, r.Err
	}

	all := r.matching(filter)
	return paginate(all, page.Skip, page.Take), int64(len(all)), nil
}

func (r *Repository) CountByFilter(_ context.Context, filter domain.BookingFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return 0, r.Err
	}

	return int64(len(r.matching(filter))), nil
}

func (r *Repository) ListChronological(_ context.Context, filter domain.BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	all := r.matching(filter)
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, offset, limit), nil
}

func (r *Repository) Update(_ context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}

	if patch.RoomID != nil {
		b.RoomID = *patch.RoomID
	}
	if patch.UserID != nil {
		b.UserID = *patch.UserID
	}
	if patch.CompanyID != nil {
		b.CompanyID = *patch.CompanyID
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.Date != nil {
		b.Date = *patch.Date
	}
	if patch.StartTime != nil {
		b.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		b.EndTime = *patch.EndTime
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = patch.Description
	}
	b.UpdatedAt = time.Now().UTC()

	r.bookings[id] = b
	return &b, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

// Len количество хранимых бронирований
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// matching возвращает копии подходящих записей, новые первыми
// Вызывается под мьютексом
func (r *Repository) matching(filter domain.BookingFilter) []*domain.Booking {
	result := make([]*domain.Booking, 0, len(r.bookings))

	for _, stored := range r.bookings {
		b := stored
		if !matches(&b, filter) {
			continue
		}
		result = append(result, &b)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func matches(b *domain.Booking, f domain.BookingFilter) bool {
	if f.CompanyID != nil && b.CompanyID != *f.CompanyID {
		return false
	}
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.RoomID != nil && b.RoomID != *f.RoomID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if s == b.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Day != nil && b.Date.Day() != *f.Day {
		return false
	}
	if f.Date != nil && !b.Date.Equal(*f.Date) {
		return false
	}
	if f.DateFrom != nil && b.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && b.Date.After(*f.DateTo) {
		return false
	}
	if f.Text != nil && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(*f.Text)) {
		return false
	}
	return true
}

func paginate(items []*domain.Booking, skip, take int) []*domain.Booking {
	if skip >= len(items) {
		return make([]*domain.Booking, 0)
	}
	end := skip + take
	if take <= 0 || end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// TxManager выполняет функцию без транзакции
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
