package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/wonny/valuesip/internal/data/repos"
	"github.com/wonny/valuesip/internal/strategy"
	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/logger"
)

// StrategyHandler handles strategy catalog and recommendation endpoints
type StrategyHandler struct {
	seriesRepo *repos.SeriesRepository
	resultRepo *repos.ResultRepository
	config     *config.Config
	logger     *logger.Logger
}

// NewStrategyHandler creates a new strategy handler. Repos may be nil
// when the server runs without a database.
func NewStrategyHandler(
	seriesRepo *repos.SeriesRepository,
	resultRepo *repos.ResultRepository,
	cfg *config.Config,
	log *logger.Logger,
) *StrategyHandler {
	return &StrategyHandler{
		seriesRepo: seriesRepo,
		resultRepo: resultRepo,
		config:     cfg,
		logger:     log,
	}
}

// List returns the built-in strategy catalog
// GET /api/strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategy.AllPresets(),
		"bullets": append(append(
			strategy.BulletPresets(),
			strategy.PBBulletPresets()...),
			strategy.CombinedBulletPresets()...),
	})
}

// Recommend evaluates all strategies at the given valuation
// GET /api/recommend?pe=21.5&pb=2.8&base=10000
//
// pe 생략 시 저장된 최신 시계열에서 읽는다 (symbol 쿼리 필요).
func (h *StrategyHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pe, pb := math.NaN(), math.NaN()
	var err error

	if s := q.Get("pe"); s != "" {
		if pe, err = strconv.ParseFloat(s, 64); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid pe value")
			return
		}
	}
	if s := q.Get("pb"); s != "" {
		if pb, err = strconv.ParseFloat(s, 64); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid pb value")
			return
		}
	}

	asOf := ""
	if math.IsNaN(pe) {
		symbol := q.Get("symbol")
		if symbol == "" {
			respondError(w, http.StatusBadRequest, "Either pe or symbol is required")
			return
		}
		if h.seriesRepo == nil {
			respondError(w, http.StatusServiceUnavailable, "Stored valuations unavailable (no database configured)")
			return
		}

		latest, err := h.seriesRepo.Latest(r.Context(), symbol)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load latest valuation")
			respondError(w, http.StatusInternalServerError, "Failed to load latest valuation for "+symbol)
			return
		}
		pe, pb = latest.PE, latest.PB
		asOf = latest.Date.Format("2006-01-02")
	}

	base := h.config.SIP.BaseAmount
	if s := q.Get("base"); s != "" {
		if base, err = strconv.ParseFloat(s, 64); err != nil || base <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid base amount")
			return
		}
	}

	recs := strategy.Recommend(pe, pb, base, strategy.AllPresets())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pe":              jsonFloat(pe),
		"pb":              jsonFloat(pb),
		"zone":            strategy.PEZone(pe),
		"base_amount":     base,
		"as_of":           asOf,
		"recommendations": recs,
	})
}

// LatestSnapshot returns the newest stored recommendation snapshot,
// written by the weekly scheduler job
// GET /api/recommendations?symbol=QQQ
func (h *StrategyHandler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if h.resultRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "Stored recommendations unavailable (no database configured)")
		return
	}

	recs, asOf, err := h.resultRepo.LatestRecommendations(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load recommendation snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to load recommendations for "+symbol)
		return
	}
	if len(recs) == 0 {
		respondError(w, http.StatusNotFound, "No stored recommendations for "+symbol)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":          symbol,
		"as_of":           asOf.Format("2006-01-02"),
		"recommendations": recs,
	})
}

// jsonFloat keeps NaN out of the JSON encoder (결측은 null로)
func jsonFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
