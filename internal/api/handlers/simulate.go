package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/simulate"
	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/logger"
)

// SimulateHandler handles simulation API endpoints
// ⭐ SSOT: 시뮬레이션 API 핸들러는 이 구조체에서만
type SimulateHandler struct {
	simulator  *simulate.Simulator
	seriesRepo *repos.SeriesRepository
	config     *config.Config
	logger     *logger.Logger
}

// NewSimulateHandler creates a new simulation handler. seriesRepo may
// be nil when the server runs without a database; symbol-based
// requests then return 503.
func NewSimulateHandler(
	sim *simulate.Simulator,
	seriesRepo *repos.SeriesRepository,
	cfg *config.Config,
	log *logger.Logger,
) *SimulateHandler {
	return &SimulateHandler{
		simulator:  sim,
		seriesRepo: seriesRepo,
		config:     cfg,
		logger:     log,
	}
}

// SeriesPoint is the wire shape of one simulation period.
// pe/pb 생략 시 결측(NaN) 처리
type SeriesPoint struct {
	Date  string   `json:"date"` // YYYY-MM-DD
	Price float64  `json:"price"`
	PE    *float64 `json:"pe,omitempty"`
	PB    *float64 `json:"pb,omitempty"`
}

// SeriesRequest selects the input series: either inline points or a
// stored symbol with a date range.
type SeriesRequest struct {
	Series []SeriesPoint `json:"series,omitempty"`
	Symbol string        `json:"symbol,omitempty"`
	From   string        `json:"from,omitempty"` // YYYY-MM-DD
	To     string        `json:"to,omitempty"`
}

// SimulateRequest runs one strategy over a series
type SimulateRequest struct {
	SeriesRequest
	Strategy   string             `json:"strategy"` // preset name
	Custom     *strategy.Strategy `json:"custom,omitempty"`
	BaseAmount float64            `json:"base_amount,omitempty"`
	Ledger     bool               `json:"ledger,omitempty"` // include weekly rows
}

// Simulate runs a periodic-contribution simulation
// POST /api/simulate
func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	strat, ok := h.resolveStrategy(w, req.Strategy, req.Custom)
	if !ok {
		return
	}
	series, ok := h.resolveSeries(w, r, req.SeriesRequest)
	if !ok {
		return
	}

	base := req.BaseAmount
	if base == 0 {
		base = h.config.SIP.BaseAmount
	}

	res, err := h.simulator.SIP(series, strat, base)
	if err != nil {
		respondSimError(w, h.logger, err)
		return
	}
	if !req.Ledger {
		res.Weekly = nil
	}

	respondJSON(w, http.StatusOK, res)
}

// BulletRequest runs one bullet config over a series
type BulletRequest struct {
	SeriesRequest
	Strategy           string                 `json:"strategy"` // bullet preset name
	Custom             *strategy.BulletConfig `json:"custom,omitempty"`
	WeeklyAccumulation float64                `json:"weekly_accumulation,omitempty"`
	Ledger             bool                   `json:"ledger,omitempty"`
}

// Bullet runs a deferred-capital simulation
// POST /api/bullet
func (h *SimulateHandler) Bullet(w http.ResponseWriter, r *http.Request) {
	var req BulletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg := req.Custom
	if cfg == nil {
		preset, found := strategy.FindBulletPreset(req.Strategy)
		if !found {
			respondError(w, http.StatusBadRequest, "Unknown bullet strategy: "+req.Strategy)
			return
		}
		cfg = preset
	}

	series, ok := h.resolveSeries(w, r, req.SeriesRequest)
	if !ok {
		return
	}

	accum := req.WeeklyAccumulation
	if accum == 0 {
		accum = h.config.SIP.WeeklyAccumulation
	}

	res, err := h.simulator.Bullet(series, cfg, accum)
	if err != nil {
		respondSimError(w, h.logger, err)
		return
	}
	if !req.Ledger {
		res.Weekly = nil
	}

	respondJSON(w, http.StatusOK, res)
}

// CompareRequest runs several strategies over the same series
type CompareRequest struct {
	SeriesRequest
	Strategies []string             `json:"strategies,omitempty"` // preset names; empty = all
	Custom     []*strategy.Strategy `json:"custom,omitempty"`
	BaseAmount float64              `json:"base_amount,omitempty"`
}

// Compare runs all requested strategies in parallel
// POST /api/compare
func (h *SimulateHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var strategies []*strategy.Strategy
	switch {
	case len(req.Strategies) > 0:
		for _, name := range req.Strategies {
			s, found := strategy.FindPreset(name)
			if !found {
				respondError(w, http.StatusBadRequest, "Unknown strategy: "+name)
				return
			}
			strategies = append(strategies, s)
		}
	case len(req.Custom) > 0:
		strategies = req.Custom
	default:
		strategies = strategy.AllPresets()
	}

	series, ok := h.resolveSeries(w, r, req.SeriesRequest)
	if !ok {
		return
	}

	base := req.BaseAmount
	if base == 0 {
		base = h.config.SIP.BaseAmount
	}

	results, err := h.simulator.Compare(r.Context(), series, strategies, base)
	if err != nil {
		respondSimError(w, h.logger, err)
		return
	}

	// 비교 응답에서 주간 레저는 항상 생략 (전략 수 × 기간만큼 커짐)
	for _, res := range results {
		res.Weekly = nil
	}

	respondJSON(w, http.StatusOK, results)
}

// resolveStrategy picks the preset or inline custom strategy
func (h *SimulateHandler) resolveStrategy(w http.ResponseWriter, name string, custom *strategy.Strategy) (*strategy.Strategy, bool) {
	if custom != nil {
		if custom.Kind == "" {
			custom.Kind = strategy.KindSingle
		}
		if custom.Kind == strategy.KindSingle && custom.Source == "" {
			custom.Source = strategy.SignalPE
		}
		return custom, true
	}

	s, found := strategy.FindPreset(name)
	if !found {
		respondError(w, http.StatusBadRequest, "Unknown strategy: "+name)
		return nil, false
	}
	return s, true
}

// resolveSeries materializes the input series from inline points or
// from the stored symbol range
func (h *SimulateHandler) resolveSeries(w http.ResponseWriter, r *http.Request, req SeriesRequest) (simulate.Series, bool) {
	if len(req.Series) > 0 {
		series := make(simulate.Series, 0, len(req.Series))
		for _, p := range req.Series {
			date, err := time.Parse("2006-01-02", p.Date)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid series date (expected YYYY-MM-DD): "+p.Date)
				return nil, false
			}
			series = append(series, simulate.Point{
				Date:  date,
				Price: p.Price,
				PE:    optional(p.PE),
				PB:    optional(p.PB),
			})
		}
		return series, true
	}

	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "Either series or symbol is required")
		return nil, false
	}
	if h.seriesRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "Stored series unavailable (no database configured)")
		return nil, false
	}

	from, to, ok := parseRange(w, req.From, req.To)
	if !ok {
		return nil, false
	}

	series, err := h.seriesRepo.GetRange(r.Context(), req.Symbol, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load stored series")
		respondError(w, http.StatusInternalServerError, "Failed to load series for "+req.Symbol)
		return nil, false
	}
	if len(series) == 0 {
		respondError(w, http.StatusNotFound, "No series data for "+req.Symbol)
		return nil, false
	}

	return series, true
}

func parseRange(w http.ResponseWriter, fromStr, toStr string) (from, to time.Time, ok bool) {
	var err error

	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
			return from, to, false
		}
	} else {
		from = time.Now().AddDate(-10, 0, 0)
	}

	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
			return from, to, false
		}
	} else {
		to = time.Now()
	}

	return from, to, true
}

func optional(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// respondSimError maps validation failures to 400 and everything else
// to 500
func respondSimError(w http.ResponseWriter, log *logger.Logger, err error) {
	var inputErr simulate.InputError
	if errors.As(err, &inputErr) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.WithError(err).Error("Simulation failed")
	respondError(w, http.StatusInternalServerError, "Simulation failed")
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
