package costmodel

import "github.com/quantexlab/quantex/internal/types"

// ZeroCostModel charges nothing. Useful for frictionless what-if runs and
// cash-conservation tests.
type ZeroCostModel struct{}

// NewZeroCostModel creates a cost model that charges nothing.
func NewZeroCostModel() *ZeroCostModel {
	return &ZeroCostModel{}
}

// Calculate implements CostModel.
func (m *ZeroCostModel) Calculate(_ types.Order, _ MarketContext) (float64, float64) {
	return 0, 0
}
