package risk

import "github.com/quantexlab/quantex/internal/types"

// Report bundles the manager's risk view of a portfolio at one point in
// time.
type Report struct {
	PeakValue       float64 `yaml:"peak_value" json:"peak_value"`
	CurrentDrawdown float64 `yaml:"current_drawdown" json:"current_drawdown"`
	// ParametricVaR is the fixed-volatility placeholder estimate.
	ParametricVaR float64 `yaml:"parametric_var" json:"parametric_var"`
	// HistoricalVaR and CVaR come from the recorded return window; both
	// are zero until enough returns exist.
	HistoricalVaR float64 `yaml:"historical_var" json:"historical_var"`
	CVaR          float64 `yaml:"cvar" json:"cvar"`
	// Volatility is annualized.
	Volatility   float64 `yaml:"volatility" json:"volatility"`
	SharpeRatio  float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	CalmarRatio  float64 `yaml:"calmar_ratio" json:"calmar_ratio"`
}

// Report builds the full risk report for a portfolio at the default 95%
// confidence level.
func (m *Manager) Report(portfolio *types.Portfolio) Report {
	const confidence = 0.95

	return Report{
		PeakValue:       m.peakValue,
		CurrentDrawdown: m.currentDrawdown,
		ParametricVaR:   m.EstimateVaR(portfolio, confidence),
		HistoricalVaR:   m.HistoricalVaR(confidence),
		CVaR:            m.CVaR(confidence),
		Volatility:      m.Volatility(true),
		SharpeRatio:     m.SharpeRatio(),
		SortinoRatio:    m.SortinoRatio(),
		CalmarRatio:     m.CalmarRatio(),
	}
}
