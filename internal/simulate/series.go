package simulate

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Metric is a float64 that serializes NaN/Inf as JSON null.
// 레저 행의 결측 신호를 API 응답에서 표현하기 위한 타입
type Metric float64

func (m Metric) MarshalJSON() ([]byte, error) {
	v := float64(m)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Metric(v)
	return nil
}

// Point is one aligned simulation period (주간 그리드 기준 한 행).
// PB is NaN when the second signal is unavailable for the period.
type Point struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	PE    float64   `json:"pe"`
	PB    float64   `json:"pb"`
}

// Series is a date-ascending, duplicate-free valuation time series.
// 정렬과 결측 보정은 데이터 공급자 책임이고, 여기서는 검증만 한다.
type Series []Point

// InputError 입력 검증 실패 (실행 중단, 자동 보정 없음)
type InputError struct {
	Field   string
	Message string
}

func (e InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the series contract: non-empty, strictly ascending
// dates, and no non-positive prices. Non-finite prices are allowed and
// skipped per period by the simulators.
func (s Series) Validate() error {
	if len(s) == 0 {
		return InputError{"series", "must not be empty"}
	}

	for i, p := range s {
		if i > 0 && !s[i-1].Date.Before(p.Date) {
			return InputError{
				Field:   "series",
				Message: fmt.Sprintf("dates must be strictly ascending, violated at index %d (%s)", i, p.Date.Format("2006-01-02")),
			}
		}
		if !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0) && p.Price <= 0 {
			return InputError{
				Field:   "series",
				Message: fmt.Sprintf("price must be > 0, got %g at %s", p.Price, p.Date.Format("2006-01-02")),
			}
		}
	}

	return nil
}

// usablePrice reports whether a period can be priced at all
func usablePrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
