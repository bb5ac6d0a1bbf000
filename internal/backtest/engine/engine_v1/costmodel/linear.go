package costmodel

import "github.com/quantexlab/quantex/internal/types"

// DefaultAverageVolume substitutes an unknown average volume so the
// market-impact term never divides by zero.
const DefaultAverageVolume = 1_000_000

// LinearCostModel charges a proportional commission with a floor and a
// linear slippage plus market-impact approximation:
//
//	commission = max(filledQty * filledPrice * CommissionRate, CommissionMin)
//	slippage   = filledPrice * SlippageRate
//	           + (filledQty / avgVolume) * ImpactCoefficient * filledPrice
//
// This is a simplified approximation, not a limit-order-book simulation.
type LinearCostModel struct {
	CommissionRate    float64
	CommissionMin     float64
	SlippageRate      float64
	ImpactCoefficient float64
}

// NewLinearCostModel creates a linear cost model with default parameters.
func NewLinearCostModel() *LinearCostModel {
	return &LinearCostModel{
		CommissionRate:    0.001,
		CommissionMin:     1.0,
		SlippageRate:      0.0005,
		ImpactCoefficient: 0.1,
	}
}

// Calculate implements CostModel.
func (m *LinearCostModel) Calculate(order types.Order, market MarketContext) (float64, float64) {
	commission := order.FilledQuantity * order.FilledPrice * m.CommissionRate
	if commission < m.CommissionMin {
		commission = m.CommissionMin
	}

	avgVolume := market.AverageVolume
	if avgVolume <= 0 {
		avgVolume = DefaultAverageVolume
	}

	baseSlippage := order.FilledPrice * m.SlippageRate
	impact := (order.FilledQuantity / avgVolume) * m.ImpactCoefficient * order.FilledPrice

	return commission, baseSlippage + impact
}
