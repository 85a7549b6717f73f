package generate_report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

func TestToReportRows(t *testing.T) {
	input := []*domain.Booking{
		{
			ID:          10,
			RoomID:      3,
			UserID:      5,
			CompanyID:   7,
			Status:      domain.StatusCancelled,
			Date:        time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			StartTime:   "14:00",
			EndTime:     "15:30",
			Title:       "Review",
			Description: ptr.Ptr("Quarterly"),
			RoomName:    "Sala Azul",
			UserName:    "Maria",
			CompanyName: "ACME",
		},
		{
			ID:     4,
			RoomID: 9,
			UserID: 2,
			Status: "ARCHIVED",
			Date:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	before := *input[0]

	rows := ToReportRows(input)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.ReportRow{
		BookingID:   "10",
		Date:        "09/03/2025",
		StartTime:   "14:00",
		EndTime:     "15:30",
		Room:        "Sala Azul",
		User:        "Maria",
		Company:     "ACME",
		Status:      "Cancelada",
		Title:       "Review",
		Description: "Quarterly",
	}, rows[0])

	assert.Equal(t, "4", rows[1].BookingID)
	assert.Equal(t, "#9", rows[1].Room)
	assert.Equal(t, "#2", rows[1].User)
	assert.Equal(t, "ARCHIVED", rows[1].Status)
	assert.Empty(t, rows[1].Description)

	// входные данные не изменяются
	assert.Equal(t, before, *input[0])
	assert.Len(t, rows[0].Values(), len(domain.ReportHeader))
}

func TestToReportRows_Empty(t *testing.T) {
	assert.Empty(t, ToReportRows(nil))
	assert.NotNil(t, ToReportRows(nil))
}

func TestReportFilename(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Relatorio_Reservas_01-01-2025_a_31-12-2025_8f14e45f-ceea-467f-a8f5-6d2b4e0c1a2b.csv",
		reportFilename(from, to, "8f14e45f-ceea-467f-a8f5-6d2b4e0c1a2b"))
}
