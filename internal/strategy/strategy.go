// Package strategy defines the contract between the backtest engine and
// trading strategies, plus the bundled example strategies.
package strategy

import (
	"time"

	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/datasource"
	"github.com/quantexlab/quantex/internal/types"
)

// Strategy produces candidate orders from a market-data window. The
// engine calls GenerateSignals once per step with the data from the start
// of the run through the current row (inclusive); the returned orders are
// candidates that still pass through the risk gate and fill-price
// resolution. A returned error aborts only the current step's signal
// generation, never the run.
//
// Strategies are supplied by the caller and owned by it; the engine only
// reads the orders they return.
type Strategy interface {
	// GenerateSignals returns zero or more candidate orders for the step.
	GenerateSignals(window []datasource.Row, timestamp time.Time) ([]types.Order, error)
	// RequiredDataFields declares the data columns the strategy expects.
	// Callers can validate data coverage against it before a run.
	RequiredDataFields() []string
	// Name returns the name of the strategy.
	Name() string
}

// VersionedStrategy is an optional capability: strategies that implement
// it declare the minimum engine version they were written against, and
// the engine refuses to run them against an incompatible build.
type VersionedStrategy interface {
	MinEngineVersion() string
}

// DefaultSymbol is the instrument symbol assigned to a bare "close"
// column in single-instrument data.
const DefaultSymbol = "default"

// CloseColumn returns the column name carrying the close price for a
// symbol: "close" for the default symbol, "<symbol>_close" otherwise.
func CloseColumn(symbol string) string {
	if symbol == DefaultSymbol {
		return "close"
	}

	return symbol + "_close"
}

// ClosePrices extracts the close-price series for a symbol from a data
// window, skipping rows that do not carry the column.
func ClosePrices(window []datasource.Row, symbol string) []float64 {
	column := CloseColumn(symbol)
	prices := make([]float64, 0, len(window))

	for _, row := range window {
		if v, ok := row.Value(column); ok {
			prices = append(prices, v)
		}
	}

	return prices
}
