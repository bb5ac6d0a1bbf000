// Package risk gates proposed orders against portfolio limits and tracks
// drawdown and return-distribution metrics across a backtest run.
package risk

import (
	"fmt"

	"github.com/quantexlab/quantex/internal/logger"
	"github.com/quantexlab/quantex/internal/types"
	"go.uber.org/zap"
)

// Limits holds the static risk limits of one run.
type Limits struct {
	// MaxPositionSize is the maximum weight of a single position relative
	// to total portfolio value.
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size" validate:"gt=0"`
	// MaxPortfolioRisk caps the tolerated per-step portfolio loss.
	MaxPortfolioRisk float64 `yaml:"max_portfolio_risk" json:"max_portfolio_risk"`
	// MaxDrawdown is the drawdown level beyond which new orders are rejected.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown" validate:"gt=0"`
	// VaRLimit caps the tolerated value at risk.
	VaRLimit float64 `yaml:"var_limit" json:"var_limit"`
	// MaxLeverage caps gross exposure relative to total value.
	MaxLeverage float64 `yaml:"max_leverage" json:"max_leverage"`
	// MaxConcentration caps the Herfindahl index of position weights.
	MaxConcentration float64 `yaml:"max_concentration" json:"max_concentration"`
}

// DefaultLimits returns the default risk limits.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize:  0.1,
		MaxPortfolioRisk: 0.02,
		MaxDrawdown:      0.2,
		VaRLimit:         0.05,
		MaxLeverage:      2.0,
		MaxConcentration: 0.2,
	}
}

// Metrics is the per-step risk snapshot.
type Metrics struct {
	PeakValue       float64 `yaml:"peak_value" json:"peak_value"`
	CurrentDrawdown float64 `yaml:"current_drawdown" json:"current_drawdown"`
	VaREstimate     float64 `yaml:"var_estimate" json:"var_estimate"`
}

// Manager evaluates proposed orders against portfolio state and limits.
// It is created once per backtest run and keeps mutable peak-value and
// drawdown state across all steps; it is never reset mid-run. Peak and
// drawdown update as a side effect of every CheckOrder call, including
// calls that reject on other grounds, and again once per step via
// UpdateMetrics.
type Manager struct {
	limits Limits
	log    *logger.Logger

	peakValue       float64
	currentDrawdown float64

	// bounded window of per-step portfolio returns for the
	// distribution-based metrics
	returns  []float64
	lookback int

	// assumedVolatility is the fixed daily volatility used by the
	// parametric VaR placeholder.
	assumedVolatility float64
}

const (
	defaultLookback          = 252
	defaultAssumedVolatility = 0.02

	// minObservations is the minimum number of recorded returns the
	// distribution-based metrics need before reporting a nonzero value.
	minObservations = 30
)

// NewManager creates a risk manager with the given limits.
func NewManager(limits Limits, log *logger.Logger) *Manager {
	return &Manager{
		limits:            limits,
		log:               log,
		lookback:          defaultLookback,
		assumedVolatility: defaultAssumedVolatility,
	}
}

// Limits returns the static limits of this manager.
func (m *Manager) Limits() Limits {
	return m.limits
}

// CheckOrder evaluates a proposed order against the portfolio before any
// state mutation. It returns whether the order is approved and a
// human-readable reason when it is not. Rejection leaves the portfolio
// untouched; approval carries no side effect beyond the peak/drawdown
// update described on Manager.
func (m *Manager) CheckOrder(order types.Order, portfolio *types.Portfolio, prices map[string]float64) (bool, string) {
	// Hypothetical post-trade quantity for the order's instrument
	position := portfolio.Position(order.Symbol)
	newQuantity := position.Quantity + order.SignedQuantity()

	price := prices[order.Symbol]
	positionValue := newQuantity * price
	if positionValue < 0 {
		positionValue = -positionValue
	}

	var positionWeight float64
	if portfolio.TotalValue > 0 {
		positionWeight = positionValue / portfolio.TotalValue
	}

	if positionWeight > m.limits.MaxPositionSize {
		return false, fmt.Sprintf("position size exceeds limit: %.3f > %.3f", positionWeight, m.limits.MaxPositionSize)
	}

	if portfolio.MarginAvailable < 0 {
		return false, "insufficient margin"
	}

	m.updateDrawdown(portfolio.TotalValue)

	if m.currentDrawdown > m.limits.MaxDrawdown {
		return false, fmt.Sprintf("maximum drawdown exceeded: %.3f > %.3f", m.currentDrawdown, m.limits.MaxDrawdown)
	}

	return true, "order approved"
}

// UpdateMetrics refreshes the peak-value/drawdown state from the current
// portfolio and returns the step's risk snapshot. Called once per step
// regardless of orders.
func (m *Manager) UpdateMetrics(portfolio *types.Portfolio) Metrics {
	m.updateDrawdown(portfolio.TotalValue)

	return Metrics{
		PeakValue:       m.peakValue,
		CurrentDrawdown: m.currentDrawdown,
		VaREstimate:     m.EstimateVaR(portfolio, 0.95),
	}
}

// RecordReturn appends one per-step portfolio return to the bounded
// lookback window feeding the distribution-based metrics.
func (m *Manager) RecordReturn(r float64) {
	m.returns = append(m.returns, r)
	if len(m.returns) > m.lookback {
		m.returns = m.returns[len(m.returns)-m.lookback:]
	}
}

// Reset clears all mutable state so the manager can serve a fresh run.
func (m *Manager) Reset() {
	m.peakValue = 0
	m.currentDrawdown = 0
	m.returns = nil
}

func (m *Manager) updateDrawdown(totalValue float64) {
	if totalValue > m.peakValue {
		m.peakValue = totalValue
	}

	if m.peakValue > 0 {
		m.currentDrawdown = (m.peakValue - totalValue) / m.peakValue
	}
}

// Violation describes one position-limit breach.
type Violation struct {
	Kind    string `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
}

// CheckPositionLimits reports per-symbol weight, gross leverage and
// concentration breaches for the current portfolio without mutating any
// state. Informational: the per-order gate is CheckOrder.
func (m *Manager) CheckPositionLimits(portfolio *types.Portfolio, prices map[string]float64) []Violation {
	var violations []Violation

	if portfolio.TotalValue <= 0 {
		return violations
	}

	var grossExposure, concentration float64

	for symbol, position := range portfolio.Positions {
		price, ok := prices[symbol]
		if position.Quantity == 0 || !ok {
			continue
		}

		weight := position.Quantity * price / portfolio.TotalValue
		if weight < 0 {
			weight = -weight
		}

		grossExposure += weight
		concentration += weight * weight

		if weight > m.limits.MaxPositionSize {
			violations = append(violations, Violation{
				Kind:    "position_size",
				Message: fmt.Sprintf("%s: %.3f > %.3f", symbol, weight, m.limits.MaxPositionSize),
			})
		}
	}

	if m.limits.MaxLeverage > 0 && grossExposure > m.limits.MaxLeverage {
		violations = append(violations, Violation{
			Kind:    "leverage",
			Message: fmt.Sprintf("gross exposure %.3f > %.3f", grossExposure, m.limits.MaxLeverage),
		})
	}

	if m.limits.MaxConcentration > 0 && concentration > m.limits.MaxConcentration {
		violations = append(violations, Violation{
			Kind:    "concentration",
			Message: fmt.Sprintf("concentration %.3f > %.3f", concentration, m.limits.MaxConcentration),
		})
	}

	if len(violations) > 0 {
		m.log.Warn("Position limit violations", zap.Int("count", len(violations)))
	}

	return violations
}
