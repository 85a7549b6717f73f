package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cancelBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/delete_booking"
	downloadReportHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/download_report"
	generateReportHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/generate_report"
	getBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking"
	getBookingsByFilterHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_bookings_by_filter"
	getRoomBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_room_bookings"
	listBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_bookings"
	updateBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/routes"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/reports"
	bookingsService "github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/bookingstest"
	generateReportUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/generate_report"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
)

const secret = "e2e-secret"

type recordingNotifier struct {
	recipient string
	url       string
}

func (n *recordingNotifier) Channel() string { return "test" }

func (n *recordingNotifier) NotifyReportReady(_ context.Context, recipient, url string) (*domain.NotificationResult, error) {
	n.recipient = recipient
	n.url = url
	return &domain.NotificationResult{Channel: "test", Recipient: recipient, MessageID: "msg-1"}, nil
}

type env struct {
	server     *httptest.Server
	notifier   *recordingNotifier
	reportsDir string
	token      string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	log := logger.NewDiscard()
	repo := bookingstest.NewRepository()
	tx := bookingstest.TxManager{}
	svc := bookingsService.NewService(repo, tx, log)

	dir := t.TempDir()
	store := reports.NewStore(dir, ',')
	notifier := &recordingNotifier{}
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	uc := generateReportUC.NewUseCase(repo, store, notifier, tx, m, 2, log)

	r := mux.NewRouter()
	routes.RegisterBookingRoutes(r, routes.BookingHandlers{
		List:           listBookingsHandler.NewHandler(svc, 10, 100, log),
		Get:            getBookingHandler.NewHandler(svc, log),
		GetByRoom:      getRoomBookingsHandler.NewHandler(svc, log),
		GetByFilter:    getBookingsByFilterHandler.NewHandler(svc, 10, 100, log),
		Create:         createBookingHandler.NewHandler(svc, log),
		Update:         updateBookingHandler.NewHandler(svc, log),
		Delete:         deleteBookingHandler.NewHandler(svc, log),
		Cancel:         cancelBookingHandler.NewHandler(svc, log),
		DownloadReport: downloadReportHandler.NewHandler(store, log),
		GenerateReport: generateReportHandler.NewHandler(uc, false, log),
	}, middleware.Auth(secret, log))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token := signToken(t, "5", "ana@example.com", 1, nil)

	return &env{server: srv, notifier: notifier, reportsDir: dir, token: token}
}

func signToken(t *testing.T, subject, login string, permission int, companyID *int64) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Login:        login,
		PermissionID: permission,
		CompanyID:    companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func (e *env) as(token string) *env {
	clone := *e
	clone.token = token
	return &clone
}

func (e *env) download(t *testing.T, link string) []byte {
	t.Helper()

	resp, err := http.Get(link)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return raw
}

func (e *env) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func bookingPayload() map[string]interface{} {
	return map[string]interface{}{
		"salaId":     3,
		"usuarioId":  5,
		"empresaId":  7,
		"data":       "2025-03-10",
		"horaInicio": "09:00",
		"horaFim":    "10:30",
		"titulo":     "Sprint planning",
		"descricao":  "Q2",
	}
}

func TestBookingLifecycle(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(t, http.MethodPost, "/reserva", bookingPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", body["message"])

	created := body["data"].(map[string]interface{})
	for key, value := range bookingPayload() {
		switch v := value.(type) {
		case int:
			assert.Equal(t, float64(v), created[key], key)
		default:
			assert.Equal(t, v, created[key], key)
		}
	}
	assert.Equal(t, "PENDING", created["status"])
	id := created["id"].(float64)
	assert.Positive(t, id)

	resp, body = e.do(t, http.MethodGet, "/reserva/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "findOne", body["message"])

	resp, body = e.do(t, http.MethodPut, "/reserva/1", map[string]interface{}{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CONFIRMED", body["data"].(map[string]interface{})["status"])
	assert.Equal(t, "Sprint planning", body["data"].(map[string]interface{})["titulo"])

	resp, body = e.do(t, http.MethodPatch, "/reserva/1/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CANCELLED", body["data"].(map[string]interface{})["status"])

	resp, _ = e.do(t, http.MethodPatch, "/reserva/1/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = e.do(t, http.MethodDelete, "/reserva/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "deleted", body["message"])
	assert.Equal(t, id, body["data"].(map[string]interface{})["id"])

	resp, body = e.do(t, http.MethodGet, "/reserva/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)

	payload := bookingPayload()
	payload["horaFim"] = "08:00"

	resp, body := e.do(t, http.MethodPost, "/reserva", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["message"])

	resp, _ = e.do(t, http.MethodPost, "/reserva", map[string]interface{}{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListingEndpoints(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 3; i++ {
		resp, _ := e.do(t, http.MethodPost, "/reserva", bookingPayload())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := e.do(t, http.MethodGet, "/reserva?page=1&size=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "findAll", body["message"])
	assert.Len(t, body["data"], 2)

	resp, body = e.do(t, http.MethodGet, "/reserva/filter?empresaId=7&status=PENDING,ACTIVE&size=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "findByFilter", body["message"])
	page := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), page["total"])
	assert.Len(t, page["data"], 1)

	resp, _ = e.do(t, http.MethodGet, "/reserva/filter?hinicio=25:00", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/reserva/sala/3/3/2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "findBookingByRoomAndDate", body["message"])
	assert.Len(t, body["data"], 3)
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.server.URL + "/reserva")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGenerateAndDownloadReport(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 3; i++ {
		resp, _ := e.do(t, http.MethodPost, "/reserva", bookingPayload())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := e.do(t, http.MethodPost, "/reserva/report/generate", map[string]interface{}{
		"usuarioId": nil,
		"start":     "2025-03-01",
		"end":       "2025-03-31",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Relatório gerado com sucesso.", body["message"])
	assert.Equal(t, "ana@example.com", body["email"].(map[string]interface{})["recipient"])

	filename := path.Base(e.notifier.url)
	assert.Regexp(t, `^Relatorio_Reservas_01-03-2025_a_31-03-2025_[0-9a-f-]{36}\.csv$`, filename)
	assert.Equal(t, e.server.URL+"/reserva/report/download/"+filename, e.notifier.url)

	onDisk, err := os.ReadFile(filepath.Join(e.reportsDir, filename))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(onDisk), "\n"))

	// ссылка из письма открывается без токена
	dl, err := http.Get(e.notifier.url)
	require.NoError(t, err)
	defer dl.Body.Close()

	require.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Contains(t, dl.Header.Get("Content-Disposition"), "attachment")
	streamed, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, onDisk, streamed)
}

func TestGenerateReport_LinksAreIsolated(t *testing.T) {
	e := newEnv(t)

	own := bookingPayload()
	own["empresaId"] = 8
	own["titulo"] = "company eight"
	for _, payload := range []map[string]interface{}{bookingPayload(), own} {
		resp, _ := e.do(t, http.MethodPost, "/reserva", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	period := map[string]interface{}{"start": "2025-03-01", "end": "2025-03-31"}

	scoped := e.as(signToken(t, "9", "manager@example.com", domain.PermissionCompanyScoped, ptr.Ptr(int64(8))))
	resp, _ := scoped.do(t, http.MethodPost, "/reserva/report/generate", period)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scopedLink := e.notifier.url

	resp, _ = e.do(t, http.MethodPost, "/reserva/report/generate", period)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminLink := e.notifier.url

	require.NotEqual(t, scopedLink, adminLink)

	// отчёт администратора за тот же период не подменяет файл менеджера
	scopedCSV := string(e.download(t, scopedLink))
	assert.Equal(t, 2, strings.Count(scopedCSV, "\n"))
	assert.Contains(t, scopedCSV, "company eight")
	assert.NotContains(t, scopedCSV, "Sprint planning")

	adminCSV := string(e.download(t, adminLink))
	assert.Equal(t, 3, strings.Count(adminCSV, "\n"))

	// имя без случайного суффикса не угадывается
	guess, err := http.Get(e.server.URL + "/reserva/report/download/Relatorio_Reservas_01-03-2025_a_31-03-2025.csv")
	require.NoError(t, err)
	guess.Body.Close()
	assert.Equal(t, http.StatusNotFound, guess.StatusCode)
}

func TestGenerateReport_LinkIgnoresForwardedHost(t *testing.T) {
	e := newEnv(t)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/reserva/report/generate",
		strings.NewReader(`{"start":"2025-03-01","end":"2025-03-31"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("X-Forwarded-Host", "attacker.example.net")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(e.notifier.url, e.server.URL+"/reserva/report/download/"), e.notifier.url)
}

func TestGenerateReport_InvalidPeriod(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(t, http.MethodPost, "/reserva/report/generate", map[string]interface{}{"start": "2025-03-31", "end": "2025-03-01"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestDownloadReport_NotFound(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.server.URL + "/reserva/report/download/absent.csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Arquivo não encontrado.", body["message"])
}

func TestDownloadReport_OutsideDirectory(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(e.reportsDir), "outside.csv"), []byte("secret"), 0o644))

	resp, err := http.Get(e.server.URL + "/reserva/report/download/..%2Foutside.csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "secret")
}
