package costmodel

import "github.com/quantexlab/quantex/internal/types"

// MarketContext carries the market information a cost model needs.
type MarketContext struct {
	// AverageVolume is the average traded volume of the instrument. Zero
	// or negative means unknown; models substitute a large default so the
	// impact term stays well defined.
	AverageVolume float64
}

// CostModel computes the commission and slippage for a filled order. Pure:
// implementations hold only their parameters and never mutate the order.
type CostModel interface {
	Calculate(order types.Order, market MarketContext) (commission, slippage float64)
}

type ModelName string

const (
	ModelLinear ModelName = "linear"
	ModelZero   ModelName = "zero"
)

var AllModels = []any{
	ModelLinear,
	ModelZero,
}

// GetCostModel returns the cost model for the given name. Unknown names
// fall back to the linear model with default parameters.
func GetCostModel(name ModelName) CostModel {
	switch name {
	case ModelZero:
		return NewZeroCostModel()
	case ModelLinear:
		return NewLinearCostModel()
	default:
		return NewLinearCostModel()
	}
}
