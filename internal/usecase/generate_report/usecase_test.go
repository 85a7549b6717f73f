package generate_report

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/reports"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/bookingstest"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

type fakeNotifier struct {
	recipient string
	url       string
	err       error
}

func (f *fakeNotifier) Channel() string { return "fake" }

func (f *fakeNotifier) NotifyReportReady(_ context.Context, recipient, url string) (*domain.NotificationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recipient = recipient
	f.url = url
	return &domain.NotificationResult{Channel: "fake", Recipient: recipient, MessageID: "m-1"}, nil
}

type fakeMetrics struct {
	reports       map[string]int
	notifications map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{reports: map[string]int{}, notifications: map[string]int{}}
}

func (m *fakeMetrics) ObserveReport(result string) { m.reports[result]++ }

func (m *fakeMetrics) ObserveNotification(channel, result string) {
	m.notifications[channel+":"+result]++
}

type fixture struct {
	uc       *UseCase
	repo     *bookingstest.Repository
	notifier *fakeNotifier
	metrics  *fakeMetrics
	dir      string
}

func newFixture(t *testing.T, batchSize int) *fixture {
	t.Helper()

	f := &fixture{
		repo:     bookingstest.NewRepository(),
		notifier: &fakeNotifier{},
		metrics:  newFakeMetrics(),
		dir:      t.TempDir(),
	}
	f.uc = NewUseCase(f.repo, reports.NewStore(f.dir, ','), f.notifier, bookingstest.TxManager{}, f.metrics, batchSize, logger.NewDiscard())
	return f
}

func (f *fixture) seed(t *testing.T, companyID, userID int64, date string) {
	t.Helper()

	d, err := time.Parse(domain.DateFormat, date)
	require.NoError(t, err)

	_, err = f.repo.Create(context.Background(), &domain.Booking{
		RoomID:    1,
		UserID:    userID,
		CompanyID: companyID,
		Status:    domain.StatusActive,
		Date:      d,
		StartTime: "09:00",
		EndTime:   "10:00",
		Title:     "Meeting",
	})
	require.NoError(t, err)
}

func (f *fixture) readCSV(t *testing.T, filename string) [][]string {
	t.Helper()

	file, err := os.Open(filepath.Join(f.dir, filename))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

var reportNamePattern = regexp.MustCompile(`^Relatorio_Reservas_01-01-2025_a_31-01-2025_[0-9a-f-]{36}\.csv$`)

func adminUser() domain.AuthUser {
	return domain.AuthUser{ID: 1, Login: "admin@example.com", PermissionID: 1}
}

func TestExecute_WritesAllRowsInBatches(t *testing.T) {
	f := newFixture(t, 2)
	for _, date := range []string{"2025-01-05", "2025-01-10", "2025-01-15", "2025-01-20", "2025-01-25", "2025-02-01"} {
		f.seed(t, 7, 5, date)
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		User:    adminUser(),
		Start:   "2025-01-01",
		End:     "2025-01-31",
		BaseURL: "https://rooms.example.com/",
	})
	require.NoError(t, err)

	assert.Regexp(t, reportNamePattern, resp.Filename)
	assert.Equal(t, "https://rooms.example.com/reserva/report/download/"+resp.Filename, resp.URL)
	assert.Equal(t, 5, resp.Rows)
	assert.Equal(t, int64(5), resp.Total)

	records := f.readCSV(t, resp.Filename)
	require.Len(t, records, 6)
	assert.Equal(t, domain.ReportHeader, records[0])
	assert.Equal(t, "05/01/2025", records[1][1])
	assert.Equal(t, "25/01/2025", records[5][1])

	assert.Equal(t, "admin@example.com", f.notifier.recipient)
	assert.Equal(t, resp.URL, f.notifier.url)
	assert.Equal(t, 1, f.metrics.reports[resultSuccess])
	assert.Equal(t, 1, f.metrics.notifications["fake:"+resultSuccess])
}

func TestExecute_CompanyScopedUser(t *testing.T) {
	f := newFixture(t, 100)
	f.seed(t, 7, 5, "2025-01-05")
	f.seed(t, 8, 5, "2025-01-06")

	user := domain.AuthUser{ID: 2, Login: "manager@example.com", PermissionID: domain.PermissionCompanyScoped, CompanyID: ptr.Ptr(int64(8))}

	resp, err := f.uc.Execute(context.Background(), &Request{User: user, Start: "2025-01-01", End: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Rows)

	records := f.readCSV(t, resp.Filename)
	assert.Equal(t, "06/01/2025", records[1][1])
}

func TestExecute_SamePeriodGetsDistinctFiles(t *testing.T) {
	f := newFixture(t, 100)
	f.seed(t, 7, 5, "2025-01-05")
	f.seed(t, 8, 5, "2025-01-06")

	scoped := domain.AuthUser{ID: 2, Login: "manager@example.com", PermissionID: domain.PermissionCompanyScoped, CompanyID: ptr.Ptr(int64(8))}

	first, err := f.uc.Execute(context.Background(), &Request{User: scoped, Start: "2025-01-01", End: "2025-01-31"})
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), &Request{User: adminUser(), Start: "2025-01-01", End: "2025-01-31"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
	assert.Len(t, f.readCSV(t, first.Filename), 2)
	assert.Len(t, f.readCSV(t, second.Filename), 3)
}

func TestExecute_CompanyScopedWithoutCompany(t *testing.T) {
	f := newFixture(t, 100)
	user := domain.AuthUser{ID: 2, Login: "manager@example.com", PermissionID: domain.PermissionCompanyScoped}

	_, err := f.uc.Execute(context.Background(), &Request{User: user, Start: "2025-01-01", End: "2025-01-31"})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExecute_UserFilter(t *testing.T) {
	f := newFixture(t, 100)
	f.seed(t, 7, 5, "2025-01-05")
	f.seed(t, 7, 6, "2025-01-06")

	resp, err := f.uc.Execute(context.Background(), &Request{
		User:   adminUser(),
		UserID: ptr.Ptr(int64(6)),
		Start:  "2025-01-01",
		End:    "2025-01-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Rows)
}

func TestExecute_InvalidPeriod(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{name: "missing start", start: "", end: "2025-01-31"},
		{name: "missing end", start: "2025-01-01", end: ""},
		{name: "garbage", start: "yesterday", end: "2025-01-31"},
		{name: "end before start", start: "2025-02-01", end: "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 100)

			_, err := f.uc.Execute(context.Background(), &Request{User: adminUser(), Start: tt.start, End: tt.end})
			assert.ErrorIs(t, err, ErrInvalidInput)

			entries, readErr := os.ReadDir(f.dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries)
		})
	}
}

func TestExecute_RepositoryFailureRemovesFile(t *testing.T) {
	f := newFixture(t, 100)
	f.repo.Err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), &Request{User: adminUser(), Start: "2025-01-01", End: "2025-01-31"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.metrics.reports[resultError])

	entries, readErr := os.ReadDir(f.dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestExecute_NotificationFailure(t *testing.T) {
	f := newFixture(t, 100)
	f.seed(t, 7, 5, "2025-01-05")
	f.notifier.err = errors.New("smtp down")

	_, err := f.uc.Execute(context.Background(), &Request{User: adminUser(), Start: "2025-01-01", End: "2025-01-31"})
	assert.ErrorIs(t, err, ErrNotification)
	assert.Equal(t, 1, f.metrics.notifications["fake:"+resultError])

	// отчёт остаётся доступным для скачивания
	entries, readErr := os.ReadDir(f.dir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Regexp(t, reportNamePattern, entries[0].Name())
}

func TestParseReportDate_RFC3339(t *testing.T) {
	got, err := parseReportDate("start", "2025-03-10T15:04:05-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)
}
