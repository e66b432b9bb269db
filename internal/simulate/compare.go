package simulate

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/valuesip/internal/strategy"
)

// Compare runs every strategy against the same series in parallel and
// collects results keyed by strategy name.
//
// 각 실행은 동일한 불변 시계열만 읽고 자기 결과에만 쓰므로 동기화는
// 결과 수집 한 곳이면 충분하다. 취소된 컨텍스트 이후의 실행은
// 시작되지 않는다.
func (s *Simulator) Compare(ctx context.Context, series Series, strategies []*strategy.Strategy, baseAmount float64) (map[string]*SIPResult, error) {
	if len(strategies) == 0 {
		return nil, InputError{"strategies", "must not be empty"}
	}

	// 시계열 검증은 한 번만 (개별 실행에서 반복 검증은 무해하지만 불필요)
	if err := series.Validate(); err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  = make(map[string]*SIPResult, len(strategies))
		firstErr error
	)

	for _, strat := range strategies {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(st *strategy.Strategy) {
			defer wg.Done()

			res, err := s.SIP(series, st, baseAmount)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("strategy %s: %w", st.Name, err)
				}
				return
			}
			results[st.Name] = res
		}(strat)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
