package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

const (
	tableBookings = "bookings"

	orderNewestFirst = "b.booking_date DESC, b.start_time DESC, b.id DESC"
	orderChronologic = "b.booking_date ASC, b.start_time ASC, b.id ASC"
)

// bookingColumns колонки выборки бронирования вместе с отображаемыми именами
var bookingColumns = []string{
	"b.id",
	"b.room_id",
	"b.user_id",
	"b.company_id",
	"b.status",
	"b.booking_date",
	"b.start_time",
	"b.end_time",
	"b.title",
	"b.description",
	"b.created_at",
	"b.updated_at",
	"COALESCE(r.name, '')",
	"COALESCE(u.name, '')",
	"COALESCE(c.name, '')",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"room_id",
			"user_id",
			"company_id",
			"status",
			"booking_date",
			"start_time",
			"end_time",
			"title",
			"description",
		).
		Values(
			booking.RoomID,
			booking.UserID,
			booking.CompanyID,
			booking.Status,
			booking.Date,
			booking.StartTime,
			booking.EndTime,
			booking.Title,
			booking.Description,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает страницу всех бронирований, сначала новые
func (r *Repository) List(ctx context.Context, page domain.Pagination) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		OrderBy(orderNewestFirst).
		Limit(uint64(page.Take)).
		Offset(uint64(page.Skip)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "List", query, args)
}

// GetByRoomAndPeriod получает бронирования зала в полуинтервале дат [from, to)
func (r *Repository) GetByRoomAndPeriod(ctx context.Context, roomID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.room_id": roomID}).
		Where(squirrel.GtOrEq{"b.booking_date": from}).
		Where(squirrel.Lt{"b.booking_date": to}).
		OrderBy(orderChronologic).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRoomAndPeriod - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByRoomAndPeriod", query, args)
}

// GetByFilter получает страницу бронирований по фильтру и общее количество совпадений
//
// Примеры:
//
//  1. Бронирования компании в статусах ACTIVE и CANCELLED:
//     filter := domain.BookingFilter{CompanyID: ptr.Ptr(int64(7)), Statuses: []domain.BookingStatus{"ACTIVE", "CANCELLED"}}
//
//  2. Бронирования зала на конкретную дату, начиная с 09:00:
//     filter := domain.BookingFilter{RoomID: ptr.Ptr(int64(3)), Date: &date, StartTime: ptr.Ptr(types.TimeString("09:00"))}
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingFilter, page domain.Pagination) ([]*domain.Booking, int64, error) {
	total, err := r.CountByFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if total == 0 {
		return make([]*domain.Booking, 0), 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(selectBookings(), filter).
		OrderBy(orderNewestFirst).
		Limit(uint64(page.Take)).
		Offset(uint64(page.Skip)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	bookings, err := r.query(ctx, executor, "GetByFilter", query, args)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// CountByFilter считает бронирования, подходящие под фильтр
func (r *Repository) CountByFilter(ctx context.Context, filter domain.BookingFilter) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(withJoins(psqlbuilder.Select("COUNT(*)")), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByFilter - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: CountByFilter - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// ListChronological получает порцию бронирований по фильтру в хронологическом порядке
// Используется для постраничной выгрузки отчёта внутри read-only транзакции
func (r *Repository) ListChronological(ctx context.Context, filter domain.BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(selectBookings(), filter).
		OrderBy(orderChronologic).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListChronological - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListChronological", query, args)
}

// Update частично обновляет бронирование и возвращает актуальное состояние
// Поля патча со значением nil не изменяются
func (r *Repository) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		SetMap(patchToMap(patch)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return nil, ErrBookingNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete удаляет бронирование (физическое удаление)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Вспомогательные функции

func selectBookings() squirrel.SelectBuilder {
	return withJoins(psqlbuilder.Select(bookingColumns...))
}

func withJoins(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	return b.
		From(tableBookings + " b").
		LeftJoin("rooms r ON r.id = b.room_id").
		LeftJoin("users u ON u.id = b.user_id").
		LeftJoin("companies c ON c.id = b.company_id")
}

// applyFilter добавляет к запросу условия фильтра; пустые поля не ограничивают выборку
func applyFilter(b squirrel.SelectBuilder, filter domain.BookingFilter) squirrel.SelectBuilder {
	if filter.CompanyID != nil {
		b = b.Where(squirrel.Eq{"b.company_id": *filter.CompanyID})
	}
	if filter.UserID != nil {
		b = b.Where(squirrel.Eq{"b.user_id": *filter.UserID})
	}
	if filter.RoomID != nil {
		b = b.Where(squirrel.Eq{"b.room_id": *filter.RoomID})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(squirrel.Eq{"b.status": statuses})
	}

	if filter.Day != nil {
		b = b.Where("EXTRACT(DAY FROM b.booking_date) = ?", *filter.Day)
	}
	if filter.Date != nil {
		b = b.Where(squirrel.Eq{"b.booking_date": *filter.Date})
	}
	if filter.DateFrom != nil {
		b = b.Where(squirrel.GtOrEq{"b.booking_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		b = b.Where(squirrel.LtOrEq{"b.booking_date": *filter.DateTo})
	}

	if filter.StartTime != nil {
		b = b.Where(squirrel.GtOrEq{"b.start_time": filter.StartTime.String()})
	}
	if filter.EndTime != nil {
		b = b.Where(squirrel.LtOrEq{"b.end_time": filter.EndTime.String()})
	}

	if filter.Text != nil && strings.TrimSpace(*filter.Text) != "" {
		pattern := "%" + escapeLike(strings.TrimSpace(*filter.Text)) + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"b.title": pattern},
			squirrel.ILike{"b.description": pattern},
			squirrel.ILike{"r.name": pattern},
			squirrel.ILike{"u.name": pattern},
		})
	}

	return b
}

// escapeLike экранирует спецсимволы LIKE, чтобы поиск был по подстроке
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func patchToMap(patch domain.BookingPatch) map[string]interface{} {
	values := make(map[string]interface{})

	if patch.RoomID != nil {
		values["room_id"] = *patch.RoomID
	}
	if patch.UserID != nil {
		values["user_id"] = *patch.UserID
	}
	if patch.CompanyID != nil {
		values["company_id"] = *patch.CompanyID
	}
	if patch.Status != nil {
		values["status"] = string(*patch.Status)
	}
	if patch.Date != nil {
		values["booking_date"] = *patch.Date
	}
	if patch.StartTime != nil {
		values["start_time"] = patch.StartTime.String()
	}
	if patch.EndTime != nil {
		values["end_time"] = patch.EndTime.String()
	}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}

	return values
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.CompanyID,
		&booking.Status,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Title,
		&booking.Description,
		&createdAt,
		&updatedAt,
		&booking.RoomName,
		&booking.UserName,
		&booking.CompanyName,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
