package types

import (
	"github.com/shopspring/decimal"
)

// Position tracks the holding of a single instrument. Quantity is signed:
// positive is long, negative is short. AvgPrice is undefined (zero) while
// the quantity is zero. RealizedPnL accumulates over the life of the
// position and is never reset.
type Position struct {
	Symbol        string  `yaml:"symbol" json:"symbol"`
	Quantity      float64 `yaml:"quantity" json:"quantity"`
	AvgPrice      float64 `yaml:"avg_price" json:"avg_price"`
	MarketValue   float64 `yaml:"market_value" json:"market_value"`
	UnrealizedPnL float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	RealizedPnL   float64 `yaml:"realized_pnl" json:"realized_pnl"`
}

// NewPosition creates an empty position for a symbol.
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol}
}

// ApplyFill applies a trade to the position and marks it to market.
// tradeQuantity is signed (buy positive, sell negative). A zero
// tradeQuantity only recomputes market value and unrealized PnL against
// currentPrice.
//
// When a trade crosses the position through zero, PnL on the entire
// crossed quantity is realized at the old average price and any residual
// quantity opens a fresh position at the trade price.
func (p *Position) ApplyFill(tradeQuantity, tradePrice, currentPrice float64) {
	switch {
	case tradeQuantity == 0:
		// mark-to-market only

	case p.Quantity == 0:
		p.Quantity = tradeQuantity
		p.AvgPrice = tradePrice

	case sameSign(tradeQuantity, p.Quantity):
		// adding to the position: average price weighted by quantity
		totalCost := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(p.AvgPrice)).
			Add(decimal.NewFromFloat(tradeQuantity).Mul(decimal.NewFromFloat(tradePrice)))
		p.Quantity += tradeQuantity

		if p.Quantity != 0 {
			avg, _ := totalCost.Div(decimal.NewFromFloat(p.Quantity)).Float64()
			p.AvgPrice = avg
		} else {
			p.AvgPrice = 0
		}

	case abs(tradeQuantity) >= abs(p.Quantity):
		// full close, possibly reversing into the opposite direction
		p.addRealized(tradePrice, p.Quantity)

		remaining := tradeQuantity + p.Quantity
		if remaining != 0 {
			p.Quantity = remaining
			p.AvgPrice = tradePrice
		} else {
			p.Quantity = 0
			p.AvgPrice = 0
		}

	default:
		// partial close: realize on the closed portion, average price unchanged
		p.addRealized(tradePrice, abs(tradeQuantity))
		p.Quantity += tradeQuantity
	}

	p.MarketValue = p.Quantity * currentPrice
	if p.Quantity != 0 {
		p.UnrealizedPnL = (currentPrice - p.AvgPrice) * p.Quantity
	} else {
		p.UnrealizedPnL = 0
	}
}

// addRealized accumulates (tradePrice - avgPrice) * quantity into RealizedPnL.
func (p *Position) addRealized(tradePrice, quantity float64) {
	pnl := decimal.NewFromFloat(tradePrice).Sub(decimal.NewFromFloat(p.AvgPrice)).
		Mul(decimal.NewFromFloat(quantity))
	realized, _ := decimal.NewFromFloat(p.RealizedPnL).Add(pnl).Float64()
	p.RealizedPnL = realized
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
