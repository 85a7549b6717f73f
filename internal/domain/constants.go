package domain

// DefaultPageSize размер страницы по умолчанию
const DefaultPageSize = 10

// Business validation constants
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxSearchTextLength  = 200
)

// Time format constants
const (
	DateFormat       = "2006-01-02" // YYYY-MM-DD
	ReportDateFormat = "02/01/2006" // dd/MM/yyyy
	FileDateFormat   = "02-01-2006" // dd-MM-yyyy
)

// AllStatuses known booking statuses
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusActive,
	StatusConfirmed,
	StatusCancelled,
	StatusFinished,
}
