package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// List получает страницу всех бронирований
func (s *Service) List(ctx context.Context, page domain.Pagination) ([]models.BookingResponse, error) {
	s.logger.Info("List: fetching bookings page=%d size=%d", page.Page, page.Size)

	bookings, err := s.bookingRepo.List(ctx, page)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetByRoomAndMonth получает бронирования зала за календарный месяц
// Месяц и год принимаются как есть: month=13 нормализуется в январь следующего года
func (s *Service) GetByRoomAndMonth(ctx context.Context, roomID int64, month, year int) ([]models.BookingResponse, error) {
	s.logger.Info("GetByRoomAndMonth: fetching bookings for room=%d, month=%d, year=%d", roomID, month, year)

	if roomID <= 0 {
		return nil, fmt.Errorf("%w: room id must be positive", ErrInvalidInput)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	bookings, err := s.bookingRepo.GetByRoomAndPeriod(ctx, roomID, from, to)
	if err != nil {
		s.logger.Error("GetByRoomAndMonth: repository error for room=%d: %v", roomID, err)
		return nil, fmt.Errorf("%w: GetByRoomAndMonth - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByRoomAndMonth: found %d bookings for room=%d in %s", len(bookings), roomID, from.Format("2006-01"))
	return models.FromDomainBookingList(bookings), nil
}

// GetByFilter получает страницу бронирований по фильтру с общим количеством
func (s *Service) GetByFilter(ctx context.Context, filter domain.BookingFilter, page domain.Pagination) (*models.BookingPageResponse, error) {
	s.logger.Info("GetByFilter: fetching bookings page=%d size=%d statuses=%v", page.Page, page.Size, filter.Statuses)

	for _, status := range filter.Statuses {
		if !status.IsValid() {
			s.logger.Warn("GetByFilter: invalid status=%s", status)
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
	}
	if filter.Text != nil && len([]rune(*filter.Text)) > domain.MaxSearchTextLength {
		return nil, fmt.Errorf("%w: search text exceeds %d characters", ErrInvalidInput, domain.MaxSearchTextLength)
	}

	bookings, total, err := s.bookingRepo.GetByFilter(ctx, filter, page)
	if err != nil {
		s.logger.Error("GetByFilter: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByFilter - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByFilter: found %d of %d bookings", len(bookings), total)
	return &models.BookingPageResponse{
		Data:  models.FromDomainBookingList(bookings),
		Total: total,
	}, nil
}

// Create создает бронирование
// Пересечения по времени не проверяются
func (s *Service) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Create: creating booking for room=%d, user=%d, date=%s", req.RoomID, req.UserID, req.Date)

	booking, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Create: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		saved, err := s.bookingRepo.Create(ctx, booking)
		if err != nil {
			return err
		}

		// перечитываем, чтобы получить имена зала, пользователя и компании
		created, err = s.bookingRepo.GetByID(ctx, saved.ID)
		return err
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created booking id=%d", created.ID)
	return models.FromDomainBooking(created), nil
}

// Update частично обновляет бронирование
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d", id)

	patch, err := req.ToDomainPatch()
	if err != nil {
		s.logger.Warn("Update: invalid request for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.getBooking(ctx, "Update", id)
		if err != nil {
			return err
		}

		if patch.StartTime != nil || patch.EndTime != nil {
			start, end := current.StartTime, current.EndTime
			if patch.StartTime != nil {
				start = *patch.StartTime
			}
			if patch.EndTime != nil {
				end = *patch.EndTime
			}
			if err := models.ValidateTimeRange(start, end); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
		}

		updated, err = s.bookingRepo.Update(ctx, id, patch)
		if err != nil {
			return s.wrapRepoError("Update", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking id=%d", id)
	return models.FromDomainBooking(updated), nil
}

// Delete удаляет бронирование и возвращает удалённую запись
func (s *Service) Delete(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Delete: deleting booking id=%d", id)

	var deleted *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "Delete", id)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.Delete(ctx, id); err != nil {
			return s.wrapRepoError("Delete", id, err)
		}

		deleted = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return models.FromDomainBooking(deleted), nil
}

// Cancel переводит бронирование в статус CANCELLED
func (s *Service) Cancel(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	var cancelled *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "Cancel", id)
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d has status %s", id, booking.Status)
			return fmt.Errorf("%w: status %s", ErrCannotCancel, booking.Status)
		}

		status := domain.StatusCancelled
		cancelled, err = s.bookingRepo.Update(ctx, id, domain.BookingPatch{Status: &status})
		if err != nil {
			return s.wrapRepoError("Cancel", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	return models.FromDomainBooking(cancelled), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapRepoError(op, id, err)
	}
	return booking, nil
}

func (s *Service) wrapRepoError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
