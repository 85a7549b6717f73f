package domain

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusActive    BookingStatus = "ACTIVE"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusFinished  BookingStatus = "FINISHED"
)

// Booking represents a room reservation
type Booking struct {
	ID          int64
	RoomID      int64
	UserID      int64
	CompanyID   int64
	Status      BookingStatus
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Title       string
	Description *string

	// Resolved display data (read-only, loaded with joins)
	RoomName    string
	UserName    string
	CompanyName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValid reports whether the status belongs to the known set
func (s BookingStatus) IsValid() bool {
	for _, valid := range AllStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled reports whether the booking is still open
func (b *Booking) CanBeCancelled() bool {
	return !b.IsCancelled() && b.Status != StatusFinished
}

// BookingPatch partial update of a booking; nil fields are left unchanged
type BookingPatch struct {
	RoomID      *int64
	UserID      *int64
	CompanyID   *int64
	Status      *BookingStatus
	Date        *time.Time
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	Title       *string
	Description *string
}

// IsEmpty returns true when the patch changes nothing
func (p BookingPatch) IsEmpty() bool {
	return p.RoomID == nil &&
		p.UserID == nil &&
		p.CompanyID == nil &&
		p.Status == nil &&
		p.Date == nil &&
		p.StartTime == nil &&
		p.EndTime == nil &&
		p.Title == nil &&
		p.Description == nil
}

// BookingFilter optional search constraints; nil / empty means unconstrained
type BookingFilter struct {
	CompanyID *int64
	UserID    *int64
	Statuses  []BookingStatus
	RoomID    *int64
	Day       *int // day of month
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Date      *time.Time
	Text      *string

	// Inclusive date range, used by reports
	DateFrom *time.Time
	DateTo   *time.Time
}
