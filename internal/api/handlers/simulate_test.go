package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/logger"
)

func testHandlers(t *testing.T) (*SimulateHandler, *StrategyHandler) {
	t.Helper()
	cfg := &config.Config{
		LogLevel:  "error",
		LogFormat: "json",
		SIP: config.SIPConfig{
			BaseAmount:         10000,
			WeeklyAccumulation: 250,
		},
	}
	log := logger.New(cfg)
	sim := simulate.New(log)

	return NewSimulateHandler(sim, nil, cfg, log),
		NewStrategyHandler(nil, nil, cfg, log)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func inlineSeries() []SeriesPoint {
	pe := func(v float64) *float64 { return &v }
	return []SeriesPoint{
		{Date: "2024-01-01", Price: 100, PE: pe(22)},
		{Date: "2024-01-08", Price: 90, PE: pe(18)},
		{Date: "2024-01-15", Price: 95, PE: pe(20)},
	}
}

func TestSimulateEndpoint(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Simulate, SimulateRequest{
		SeriesRequest: SeriesRequest{Series: inlineSeries()},
		Strategy:      "Opportunistic",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res simulate.SIPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Opportunistic", res.StrategyName)
	assert.Greater(t, res.TotalInvested, 0.0)
	assert.Empty(t, res.Weekly, "ledger omitted unless requested")
}

func TestSimulateEndpointWithLedger(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Simulate, SimulateRequest{
		SeriesRequest: SeriesRequest{Series: inlineSeries()},
		Strategy:      "Opportunistic",
		Ledger:        true,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res simulate.SIPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Weekly, 3)
}

func TestSimulateEndpointUnknownStrategy(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Simulate, SimulateRequest{
		SeriesRequest: SeriesRequest{Series: inlineSeries()},
		Strategy:      "No Such Strategy",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateEndpointNoSeriesNoSymbol(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Simulate, SimulateRequest{
		Strategy: "Opportunistic",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateEndpointSymbolWithoutDB(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Simulate, SimulateRequest{
		SeriesRequest: SeriesRequest{Symbol: "QQQ"},
		Strategy:      "Opportunistic",
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBulletEndpoint(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Bullet, BulletRequest{
		SeriesRequest: SeriesRequest{Series: inlineSeries()},
		Strategy:      "Moderate Bullet",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var res simulate.BulletResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Moderate Bullet", res.StrategyName)
	assert.Equal(t, 750.0, res.TotalAccumulated)
}

func TestCompareEndpointDefaultsToAllPresets(t *testing.T) {
	simHandler, _ := testHandlers(t)

	rec := postJSON(t, simHandler.Compare, CompareRequest{
		SeriesRequest: SeriesRequest{Series: inlineSeries()},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var results map[string]*simulate.SIPResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Contains(t, results, "Balanced")
	assert.Contains(t, results, "Dual Value")
	for name, res := range results {
		assert.Empty(t, res.Weekly, "compare must omit ledgers: %s", name)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	_, stratHandler := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommend?pe=17.5&pb=2.8", nil)
	rec := httptest.NewRecorder()
	stratHandler.Recommend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Zone            string                     `json:"zone"`
		BaseAmount      float64                    `json:"base_amount"`
		Recommendations map[string]json.RawMessage `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Value (PE 16-18)", body.Zone)
	assert.Equal(t, 10000.0, body.BaseAmount)
	assert.Contains(t, body.Recommendations, "Opportunistic")
}

func TestRecommendEndpointMissingInputs(t *testing.T) {
	_, stratHandler := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommend", nil)
	rec := httptest.NewRecorder()
	stratHandler.Recommend(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestSnapshotWithoutDB(t *testing.T) {
	_, stratHandler := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?symbol=QQQ", nil)
	rec := httptest.NewRecorder()
	stratHandler.LatestSnapshot(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLatestSnapshotMissingSymbol(t *testing.T) {
	_, stratHandler := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	rec := httptest.NewRecorder()
	stratHandler.LatestSnapshot(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEndpoint(t *testing.T) {
	_, stratHandler := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
	rec := httptest.NewRecorder()
	stratHandler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Strategies []json.RawMessage `json:"strategies"`
		Bullets    []json.RawMessage `json:"bullets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Strategies)
	assert.NotEmpty(t, body.Bullets)
}
