package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

type fakeCoordinator struct {
	report     *testreport.Report
	triggerErr error
	loadErr    error
	triggers   int
}

func (f *fakeCoordinator) Trigger(ctx context.Context) (*testreport.Report, error) {
	f.triggers++
	if f.triggerErr != nil {
		return nil, f.triggerErr
	}
	start := time.Unix(1700000000, 0)
	f.report = testreport.NewReport([]testreport.Result{
		{Name: "Login: success", Group: "Login", Status: testreport.StatusPassed, Duration: 0.01},
		{Name: "Login: <script>", Group: "Login", Status: testreport.StatusFailed, Duration: 0.02, Message: "expected"},
	}, start, start.Add(time.Second))
	return f.report, nil
}

func (f *fakeCoordinator) Latest() (*testreport.Report, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.report == nil {
		return nil, testreport.ErrNoReport
	}
	return f.report, nil
}

func newTestServer(t *testing.T, coord *fakeCoordinator) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "authcheck_probe_total", Help: "probe"}))
	s, err := NewServer(coord, reg, zerolog.Nop())
	require.NoError(t, err)
	return s.Router()
}

func do(h http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex_NoReportYet(t *testing.T) {
	h := newTestServer(t, &fakeCoordinator{})

	rec := do(h, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No report yet")
}

func TestRun_RedirectsWithFlashShownOnce(t *testing.T) {
	coord := &fakeCoordinator{}
	h := newTestServer(t, coord)

	for _, path := range []string{"/", "/run"} {
		rec := do(h, http.MethodPost, path)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	}
	rec := do(h, http.MethodPost, "/")
	assert.Equal(t, 3, coord.triggers)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	page := do(h, http.MethodGet, "/", cookies[0])
	body := page.Body.String()
	assert.Contains(t, body, FlashRunDone)
	assert.Contains(t, body, "Total: 2 | Passed: 1 | Errors: 0 | Failed: 1 | Skipped: 0")
	assert.Contains(t, body, "Login: &lt;script&gt;")
	assert.NotContains(t, body, "<script>")

	cleared := page.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, flashCookie, cleared[0].Name)
	assert.True(t, cleared[0].MaxAge < 0)

	again := do(h, http.MethodGet, "/")
	assert.NotContains(t, again.Body.String(), FlashRunDone)
}

func TestRun_StoreFailureIs500(t *testing.T) {
	h := newTestServer(t, &fakeCoordinator{triggerErr: errors.New("disk full")})

	rec := do(h, http.MethodPost, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAPIReport(t *testing.T) {
	coord := &fakeCoordinator{}
	h := newTestServer(t, coord)

	rec := do(h, http.MethodGet, "/api/report")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := coord.Trigger(context.Background())
	require.NoError(t, err)

	rec = do(h, http.MethodGet, "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)
	decoded, err := testreport.Decode(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, coord.report, decoded)

	coord.loadErr = errors.New("corrupt")
	rec = do(h, http.MethodGet, "/api/report")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "corrupt", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeCoordinator{})

	rec := do(h, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "authcheck_probe_total")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, &fakeCoordinator{})

	rec := do(h, http.MethodDelete, "/")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "-", formatTimestamp(time.Time{}))
	assert.Equal(t, "1.5s", formatSeconds(1.5))
	assert.Equal(t, "12ms", formatSeconds(0.012))
}
