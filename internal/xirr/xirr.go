// Package xirr computes the money-weighted annualized return of an
// irregular, dated cashflow sequence (Excel XIRR semantics).
package xirr

import (
	"math"
	"sort"
	"time"
)

// Cashflow is a single dated amount. Negative = investment (outflow),
// positive = redemption/valuation (inflow).
type Cashflow struct {
	Date   time.Time
	Amount float64
}

const (
	// Day-count convention is actual/365. 레퍼런스 출력 재현을 위해
	// 365.25나 360으로 바꾸면 안 됨.
	daysPerYear = 365.0

	// Search domain. -1은 전액 손실이자 할인함수의 극점이므로 제외.
	bracketLow  = -0.9999
	bracketHigh = 10.0

	defaultGuess = 0.10

	maxBrentIter  = 1000
	maxNewtonIter = 1000

	brentTol  = 1e-12
	newtonTol = 1e-10
)

// Solve returns the rate at which the NPV of all cashflows is zero,
// as a decimal (0.15 = 15%).
//
// Method chain: bracketed Brent over (-0.9999, 10); if the NPV has no
// sign change in that domain or Brent fails to converge, Newton seeded
// at 0.10; if that also fails, 0.0. The 0.0 sentinel means "could not
// be computed", never an error; callers treat XIRR as a reporting
// metric, not a correctness-critical value.
func Solve(flows []Cashflow) float64 {
	if len(flows) < 2 {
		return 0.0
	}

	sorted := make([]Cashflow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	first := sorted[0].Date
	amounts := make([]float64, len(sorted))
	days := make([]float64, len(sorted))
	for i, cf := range sorted {
		amounts[i] = cf.Amount
		days[i] = float64(cf.Date.Sub(first) / (24 * time.Hour))
	}

	npv := func(rate float64) float64 {
		if rate <= -1 {
			return math.Inf(1)
		}
		sum := 0.0
		for i := range amounts {
			sum += amounts[i] * math.Pow(1+rate, -days[i]/daysPerYear)
		}
		return sum
	}

	if rate, ok := brent(npv, bracketLow, bracketHigh, brentTol, maxBrentIter); ok {
		return rate
	}

	if rate, ok := newton(amounts, days, defaultGuess); ok {
		return rate
	}

	return 0.0
}

// brent finds a root of f in [a, b] using Brent's method.
// 구간 양끝의 부호가 같으면 즉시 실패를 반환한다 (fallback 체인으로 이동).
func brent(f func(float64) float64, a, b, tol float64, maxIter int) (float64, bool) {
	fa := f(a)
	fb := f(b)

	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, false
	}
	if (fa > 0 && fb > 0) || (fa < 0 && fb < 0) {
		return 0, false // no sign change in the bracket
	}

	c := b
	fc := fb
	var d, e float64

	for iter := 0; iter < maxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c = a
			fc = fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machineEpsilon*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)

		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, true
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				// Interpolation failed, fall back to bisection
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a = b
		fa = fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return 0, false // iteration cap exhausted
}

const machineEpsilon = 2.220446049250313e-16

// newton runs Newton-Raphson with the analytic NPV derivative,
// seeded at guess. Convergence is step-based.
func newton(amounts, days []float64, guess float64) (float64, bool) {
	rate := guess

	for iter := 0; iter < maxNewtonIter; iter++ {
		if rate <= -1 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return 0, false
		}

		var f, df float64
		for i := range amounts {
			t := days[i] / daysPerYear
			discount := math.Pow(1+rate, -t)
			f += amounts[i] * discount
			df -= amounts[i] * t * discount / (1 + rate)
		}

		if df == 0 || math.IsNaN(df) {
			return 0, false
		}

		next := rate - f/df
		if math.Abs(next-rate) < newtonTol {
			return next, true
		}
		rate = next
	}

	return 0, false
}
