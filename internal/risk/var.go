package risk

import (
	"math"
	"sort"

	"github.com/quantexlab/quantex/internal/types"
)

// tradingDaysPerYear annualizes daily statistics.
const tradingDaysPerYear = 252

// EstimateVaR returns a parametric value-at-risk estimate for the
// portfolio at the given confidence level, using a fixed assumed daily
// volatility and the inverse normal CDF at 1-confidence. This is a coarse
// placeholder, not a calibrated model; do not treat the figure as a
// precise risk number.
func (m *Manager) EstimateVaR(portfolio *types.Portfolio, confidence float64) float64 {
	z := normPpf(1 - confidence)

	return portfolio.TotalValue * m.assumedVolatility * math.Abs(z)
}

// HistoricalVaR returns the empirical (1-confidence) percentile of the
// recorded per-step returns. Zero until at least 30 returns are recorded.
func (m *Manager) HistoricalVaR(confidence float64) float64 {
	if len(m.returns) < minObservations {
		return 0
	}

	return percentile(m.returns, (1-confidence)*100)
}

// CVaR returns the expected shortfall: the mean of recorded returns at or
// below the historical VaR at the given confidence level. Zero until at
// least 30 returns are recorded.
func (m *Manager) CVaR(confidence float64) float64 {
	if len(m.returns) < minObservations {
		return 0
	}

	cutoff := m.HistoricalVaR(confidence)

	var sum float64

	var count int

	for _, r := range m.returns {
		if r <= cutoff {
			sum += r
			count++
		}
	}

	if count == 0 {
		return cutoff
	}

	return sum / float64(count)
}

// Volatility returns the standard deviation of the recorded returns,
// annualized with sqrt(252) when annualized is true. Zero until at least
// 30 returns are recorded.
func (m *Manager) Volatility(annualized bool) float64 {
	if len(m.returns) < minObservations {
		return 0
	}

	vol := stddev(m.returns)
	if annualized {
		vol *= math.Sqrt(tradingDaysPerYear)
	}

	return vol
}

// SharpeRatio returns the annualized mean return over annualized
// volatility. Zero when volatility is zero or too few returns exist.
func (m *Manager) SharpeRatio() float64 {
	vol := m.Volatility(true)
	if vol == 0 {
		return 0
	}

	return mean(m.returns) * tradingDaysPerYear / vol
}

// SortinoRatio is the Sharpe ratio with volatility replaced by the
// downside deviation (standard deviation of negative returns only).
func (m *Manager) SortinoRatio() float64 {
	if len(m.returns) < minObservations {
		return 0
	}

	var downside []float64

	for _, r := range m.returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	downsideVol := m.Volatility(true)
	if len(downside) > 0 {
		downsideVol = stddev(downside) * math.Sqrt(tradingDaysPerYear)
	}

	if downsideVol == 0 {
		return 0
	}

	return mean(m.returns) * tradingDaysPerYear / downsideVol
}

// CalmarRatio returns the annualized mean return over the current
// drawdown. Zero when there is no drawdown.
func (m *Manager) CalmarRatio() float64 {
	if len(m.returns) < minObservations || m.currentDrawdown == 0 {
		return 0
	}

	return mean(m.returns) * tradingDaysPerYear / m.currentDrawdown
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mu := mean(values)

	var sum float64

	for _, v := range values {
		d := v - mu
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)-1))
}

// percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}

	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// normPpf is the inverse CDF of the standard normal distribution,
// computed with Acklam's rational approximation (relative error below
// 1.15e-9 over the open unit interval).
func normPpf(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}

	if p >= 1 {
		return math.Inf(1)
	}

	a := [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	c := [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}

	const (
		pLow  = 0.02425
		pHigh = 1 - pLow
	)

	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))

		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > pHigh:
		q := math.Sqrt(-2 * math.Log(1-p))

		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q

		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}
