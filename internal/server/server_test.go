package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, logger *zap.Logger) *Server {
	t.Helper()
	reg, err := config.DefaultRegistry()
	require.NoError(t, err)
	return New(DefaultConfig(), reg, logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLiability(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/liability",
		`{"profile":{"ordinaryIncome":120000,"filingStatus":"single"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.EqualValues(t, 2025, out["taxYear"])
	liability := out["liability"].(map[string]any)
	assert.Equal(t, "18047", liability["totalLiability"])
	assert.Equal(t, "105000", liability["taxableOrdinaryIncome"])
	assert.NotContains(t, out, "state")
}

func TestLiability_WithStateAndTrading(t *testing.T) {
	body := `{
		"profile": {"ordinaryIncome": "120000", "filingStatus": "single"},
		"trading": {"shortTermStock": -5000, "section1256": 10000},
		"state": "other",
		"customStateRate": 5
	}`
	w := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/liability", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	sd := out["scheduleD"].(map[string]any)
	assert.Equal(t, "5000", sd["finalLongTerm"])

	// 105000 taxable ordinary + 5000 long-term at 5%
	state := out["state"].(map[string]any)
	assert.Equal(t, "5500", state["tax"])
	assert.Equal(t, "flat_input", state["kind"])
}

func TestLiability_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"profile":`, http.StatusBadRequest},
		{"bad filing status", `{"profile":{"filingStatus":"head_of_household"}}`, http.StatusBadRequest},
		{"negative income", `{"profile":{"ordinaryIncome":-1}}`, http.StatusBadRequest},
		{"negative itemized", `{"profile":{},"itemized":{"salt":-5}}`, http.StatusBadRequest},
		{"unknown year", `{"taxYear":1999,"profile":{}}`, http.StatusNotFound},
		{"unknown state", `{"profile":{},"state":"atlantis"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/v1/liability", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestCompare(t *testing.T) {
	body := `{
		"name": "sample",
		"profile": {"ordinaryIncome": 150000, "capitalGains": 20000},
		"strategies": {"harvestedLoss": 25000, "charitable": 5000, "deferral": 10000}
	}`
	w := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.Equal(t, "sample", out["scenarioName"])
	assert.Equal(t, "3720", out["savings"])
	assert.Equal(t, "28247", out["baseline"].(map[string]any)["totalLiability"])
	assert.NotEmpty(t, out["waterfall"])
}

func TestCompare_NegativeElection(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/compare",
		`{"profile":{"ordinaryIncome":1000},"strategies":{"deferral":-1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleD(t *testing.T) {
	w := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/schedule-d",
		`{"shortTermStock":-5000,"section1256":10000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.Equal(t, "4000", out["futuresShortTerm"])
	assert.Equal(t, "6000", out["futuresLongTerm"])
	assert.Equal(t, "5000", out["finalLongTerm"])
	assert.Equal(t, "0", out["deductibleLoss"])
}

func TestStateTax(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/api/v1/state-tax",
		`{"state":"new_york","filingStatus":"single","taxableIncome":20000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "935", decode(t, w)["tax"])

	w = do(t, s, http.MethodPost, "/api/v1/state-tax", `{"state":"atlantis","taxableIncome":20000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/state-tax", `{"taxableIncome":20000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "state is required")

	w = do(t, s, http.MethodPost, "/api/v1/state-tax", `{"state":"other","customRate":150}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjection(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/api/v1/projection",
		`{"principal":1000,"contribution":100,"years":3,"rate":0.10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Periods  []int    `json:"periods"`
		Balances []string `json:"balances"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []int{0, 1, 2, 3}, out.Periods)
	assert.Equal(t, []string{"1000", "1200", "1420", "1662"}, out.Balances)

	w = do(t, s, http.MethodPost, "/api/v1/projection", `{"years":500}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlan(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/api/v1/plan", `{
		"filingStatus": "single",
		"currentAge": 40,
		"retirementAge": 42,
		"grossIncome": 120000,
		"hsaEligible": true,
		"investmentBudget": 10000
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "traditional", out["preferred"])
	assert.NotEmpty(t, out["recommendations"])

	w = do(t, s, http.MethodPost, "/api/v1/plan", `{"currentAge":50,"retirementAge":40}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSensitivity(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/api/v1/sensitivity", `{
		"profile": {"ordinaryIncome": 120000},
		"parameter": {"name": "ordinary_income", "min": 100000, "max": 140000, "steps": 3}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "18047", out["baseLiability"])
	assert.Equal(t, "0.24", out["peakMarginal"])
	assert.Len(t, out["points"], 3)

	w = do(t, s, http.MethodPost, "/api/v1/sensitivity",
		`{"profile": {"ordinaryIncome": 1}, "parameter": {"name": "age", "min": 0, "max": 10, "steps": 3}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/sensitivity",
		`{"profile": {"ordinaryIncome": 1}, "parameter": {"name": "credits", "min": 0, "max": 10, "steps": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRulesAndStates(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/api/v1/rules/2025", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2025, decode(t, w)["year"])

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v1/rules/1999", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/rules/next", "").Code)

	w = do(t, s, http.MethodGet, "/api/v1/states", "")
	require.Equal(t, http.StatusOK, w.Code)
	var states []stateEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &states))
	require.NotEmpty(t, states)
	keys := make([]string, len(states))
	for i, st := range states {
		keys[i] = st.Key
	}
	assert.Contains(t, keys, "california")
	assert.Contains(t, keys, "texas")

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v1/states?year=1999", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/schedule-d", `{"longTermStock":100}`)

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "taxgo_http_requests_total")
	assert.Contains(t, body, `route="/api/v1/schedule-d"`)
	assert.Contains(t, body, `taxgo_calculations_total{kind="schedule_d"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	reg, err := config.DefaultRegistry()
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.EnableMetrics = false
	s := New(cfg, reg, nil)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/v1/schedule-d", `{}`).Code)
}

func TestRequestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServer(t, zap.New(core))

	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodPost, "/api/v1/schedule-d", `{}`)
	do(t, s, http.MethodGet, "/api/v1/rules/1999", "")

	requests := logs.FilterMessage("http request").All()
	require.Len(t, requests, 2, "healthz is skipped")
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, zapcore.WarnLevel, requests[1].Level)
	assert.Equal(t, "/api/v1/rules/1999", requests[1].ContextMap()["path"])
	assert.NotEmpty(t, requests[1].ContextMap()["request_id"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
	assert.Equal(t, http.StatusBadRequest, statusFor(errBadRequest))
}
