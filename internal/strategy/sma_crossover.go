package strategy

import (
	"fmt"
	"time"

	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/datasource"
	"github.com/quantexlab/quantex/internal/indicator"
	"github.com/quantexlab/quantex/internal/types"
	"github.com/quantexlab/quantex/pkg/errors"
)

// SMACrossover buys when the short moving average rises above the long
// one and sells (reversing into a short) when it falls below. It keeps
// its own view of the position it has requested; actual accounting lives
// in the engine's portfolio.
type SMACrossover struct {
	shortPeriod  int
	longPeriod   int
	symbol       string
	positionSize float64

	// position is the strategy's intended holding after the orders it
	// has emitted so far
	position float64
}

// NewSMACrossover creates an SMA crossover strategy trading one symbol
// with a fixed order size.
func NewSMACrossover(shortPeriod, longPeriod int, symbol string, positionSize float64) *SMACrossover {
	if shortPeriod <= 0 {
		shortPeriod = 10
	}

	if longPeriod <= 0 {
		longPeriod = 30
	}

	if symbol == "" {
		symbol = DefaultSymbol
	}

	if positionSize <= 0 {
		positionSize = 1000
	}

	return &SMACrossover{
		shortPeriod:  shortPeriod,
		longPeriod:   longPeriod,
		symbol:       symbol,
		positionSize: positionSize,
	}
}

// Name implements Strategy.
func (s *SMACrossover) Name() string {
	return fmt.Sprintf("sma_cross_%d_%d", s.shortPeriod, s.longPeriod)
}

// RequiredDataFields implements Strategy.
func (s *SMACrossover) RequiredDataFields() []string {
	return []string{CloseColumn(s.symbol), "volume"}
}

// GenerateSignals implements Strategy.
func (s *SMACrossover) GenerateSignals(window []datasource.Row, _ time.Time) ([]types.Order, error) {
	prices := ClosePrices(window, s.symbol)
	if len(prices) < s.longPeriod {
		return nil, nil
	}

	shortMA, err := indicator.SMA(prices, s.shortPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyRuntimeError, "short SMA failed", err)
	}

	longMA, err := indicator.SMA(prices, s.longPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyRuntimeError, "long SMA failed", err)
	}

	var orders []types.Order

	switch {
	case shortMA > longMA && s.position <= 0:
		// close any short first, then open the long
		if s.position < 0 {
			orders = append(orders, s.marketOrder(types.SideBuy, -s.position))
		}

		orders = append(orders, s.marketOrder(types.SideBuy, s.positionSize))
		s.position = s.positionSize

	case shortMA < longMA && s.position >= 0:
		if s.position > 0 {
			orders = append(orders, s.marketOrder(types.SideSell, s.position))
		}

		orders = append(orders, s.marketOrder(types.SideSell, s.positionSize))
		s.position = -s.positionSize
	}

	return orders, nil
}

func (s *SMACrossover) marketOrder(side types.Side, quantity float64) types.Order {
	return types.Order{
		Symbol:       s.symbol,
		Side:         side,
		Type:         types.OrderTypeMarket,
		Quantity:     quantity,
		Status:       types.OrderStatusPending,
		StrategyName: s.Name(),
	}
}
