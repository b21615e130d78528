package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mindmetrics/internal/analysis"
	"github.com/fyrsmithlabs/mindmetrics/internal/config"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
	"github.com/fyrsmithlabs/mindmetrics/internal/insight"
	"github.com/fyrsmithlabs/mindmetrics/internal/logging"
	"github.com/fyrsmithlabs/mindmetrics/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pipeline := analysis.New(config.Default().Analysis, nil)
	s, err := NewServer(st, pipeline, logging.NewTestLogger(), Config{Host: "localhost", Port: 9340})
	require.NoError(t, err)
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoContentType, echoJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

const (
	echoContentType = "Content-Type"
	echoJSON        = "application/json"
)

func TestHealth(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCreateAndListEntries(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/v1/entries",
		`{"date":"2026-02-01","score":8,"tags":["exercise"],"journal":"good day"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []entry.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Score)
	assert.Equal(t, []string{"exercise"}, entries[0].Tags)
}

func TestGetEntry(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(s, http.MethodPost, "/api/v1/entries",
		`{"date":"2026-02-01","score":6,"journal":"quiet day"}`).Code)

	rec := do(s, http.MethodGet, "/api/v1/entries/2026-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var e entry.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, 6, e.Score)
	assert.Equal(t, "quiet day", e.Journal)

	assert.Equal(t, http.StatusNotFound,
		do(s, http.MethodGet, "/api/v1/entries/2026-02-02", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		do(s, http.MethodGet, "/api/v1/entries/yesterday", "").Code)
}

func TestListEntries_TagFilter(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(s, http.MethodPost, "/api/v1/entries",
		`{"date":"2026-02-01","score":8,"tags":["exercise"]}`).Code)
	require.Equal(t, http.StatusCreated, do(s, http.MethodPost, "/api/v1/entries",
		`{"date":"2026-02-02","score":4,"tags":["work"]}`).Code)

	rec := do(s, http.MethodGet, "/api/v1/entries?tag=work", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []entry.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Score)

	rec = do(s, http.MethodGet, "/api/v1/entries?tag=sleep", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateEntry_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed body", `{`, http.StatusBadRequest},
		{"bad date", `{"date":"tomorrow","score":5}`, http.StatusBadRequest},
		{"score out of range", `{"date":"2026-02-01","score":42}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/v1/entries", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCreateEntry_DuplicateDateConflict(t *testing.T) {
	s := newTestServer(t)

	body := `{"date":"2026-02-01","score":5}`
	require.Equal(t, http.StatusCreated, do(s, http.MethodPost, "/api/v1/entries", body).Code)
	assert.Equal(t, http.StatusConflict, do(s, http.MethodPost, "/api/v1/entries", body).Code)
}

func TestReport_EmptyStore(t *testing.T) {
	rec := do(newTestServer(t), http.MethodGet, "/api/v1/report", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var report insight.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, insight.StatusInsufficientData, report.Status)
	assert.Empty(t, report.Insights)
}

func TestReport_CachedUntilNewEntry(t *testing.T) {
	s := newTestServer(t)

	first := do(s, http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, first.Code)
	var r1 insight.Report
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &r1))

	// Same RunID while nothing changed.
	second := do(s, http.MethodGet, "/api/v1/report", "")
	var r2 insight.Report
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &r2))
	assert.Equal(t, r1.RunID, r2.RunID)

	// A new entry invalidates the cache.
	require.Equal(t, http.StatusCreated,
		do(s, http.MethodPost, "/api/v1/entries", `{"date":"2026-02-01","score":5}`).Code)

	third := do(s, http.MethodGet, "/api/v1/report", "")
	var r3 insight.Report
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &r3))
	assert.NotEqual(t, r1.RunID, r3.RunID)
	assert.Equal(t, 1, r3.EntryCount)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(s, http.MethodGet, "/health", "")

	rec := do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mindmetrics_http_requests_total")
}
