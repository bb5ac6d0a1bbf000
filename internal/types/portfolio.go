package types

// Portfolio owns the cash balance and the per-instrument positions of one
// backtest run. Positions are created lazily on first access. Aggregates
// (TotalValue, MarginUsed, MarginAvailable) are recomputed on every
// Revalue call and never mutated independently.
type Portfolio struct {
	InitialCapital  float64              `yaml:"initial_capital" json:"initial_capital"`
	Cash            float64              `yaml:"cash" json:"cash"`
	Positions       map[string]*Position `yaml:"positions" json:"positions"`
	TotalValue      float64              `yaml:"total_value" json:"total_value"`
	MarginUsed      float64              `yaml:"margin_used" json:"margin_used"`
	MarginAvailable float64              `yaml:"margin_available" json:"margin_available"`
	Leverage        float64              `yaml:"leverage" json:"leverage"`
}

// PortfolioSnapshot is the aggregate view returned by Revalue.
type PortfolioSnapshot struct {
	TotalValue      float64 `yaml:"total_value" json:"total_value"`
	Cash            float64 `yaml:"cash" json:"cash"`
	MarketValue     float64 `yaml:"market_value" json:"market_value"`
	UnrealizedPnL   float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	RealizedPnL     float64 `yaml:"realized_pnl" json:"realized_pnl"`
	MarginUsed      float64 `yaml:"margin_used" json:"margin_used"`
	MarginAvailable float64 `yaml:"margin_available" json:"margin_available"`
}

// NewPortfolio creates a portfolio holding only cash.
func NewPortfolio(initialCapital, leverage float64) *Portfolio {
	if leverage <= 0 {
		leverage = 1
	}

	return &Portfolio{
		InitialCapital:  initialCapital,
		Cash:            initialCapital,
		Positions:       make(map[string]*Position),
		TotalValue:      initialCapital,
		MarginAvailable: initialCapital,
		Leverage:        leverage,
	}
}

// Position returns the position for symbol, creating a zero position on
// first access. Never fails.
func (p *Portfolio) Position(symbol string) *Position {
	pos, ok := p.Positions[symbol]
	if !ok {
		pos = NewPosition(symbol)
		p.Positions[symbol] = pos
	}

	return pos
}

// Revalue marks every open position to market against prices and
// recomputes the portfolio aggregates. Positions with zero quantity or no
// known price are skipped. Total value is cash plus the sum of absolute
// market values; margin used is the aggregate market value divided by the
// leverage factor.
func (p *Portfolio) Revalue(prices map[string]float64) PortfolioSnapshot {
	var totalMarketValue, totalUnrealized, totalRealized float64

	for symbol, position := range p.Positions {
		price, ok := prices[symbol]
		if position.Quantity == 0 || !ok {
			continue
		}

		position.ApplyFill(0, 0, price)
		totalMarketValue += abs(position.MarketValue)
		totalUnrealized += position.UnrealizedPnL
		totalRealized += position.RealizedPnL
	}

	p.TotalValue = p.Cash + totalMarketValue
	p.MarginUsed = totalMarketValue / p.Leverage
	p.MarginAvailable = p.Cash - p.MarginUsed

	return PortfolioSnapshot{
		TotalValue:      p.TotalValue,
		Cash:            p.Cash,
		MarketValue:     totalMarketValue,
		UnrealizedPnL:   totalUnrealized,
		RealizedPnL:     totalRealized,
		MarginUsed:      p.MarginUsed,
		MarginAvailable: p.MarginAvailable,
	}
}
