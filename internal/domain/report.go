package domain

// ReportRow flattened, human-readable projection of a booking for CSV export
type ReportRow struct {
	BookingID   string
	Date        string
	StartTime   string
	EndTime     string
	Room        string
	User        string
	Company     string
	Status      string
	Title       string
	Description string
}

// ReportHeader CSV column titles, in the order of ReportRow.Values
var ReportHeader = []string{
	"ID",
	"Data",
	"Início",
	"Fim",
	"Sala",
	"Usuário",
	"Empresa",
	"Status",
	"Título",
	"Descrição",
}

// Values returns the row as CSV fields
func (r ReportRow) Values() []string {
	return []string{
		r.BookingID,
		r.Date,
		r.StartTime,
		r.EndTime,
		r.Room,
		r.User,
		r.Company,
		r.Status,
		r.Title,
		r.Description,
	}
}

// NotificationResult outcome of a report notification dispatch
type NotificationResult struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	MessageID string `json:"messageId,omitempty"`
	Queued    bool   `json:"queued"`
}
