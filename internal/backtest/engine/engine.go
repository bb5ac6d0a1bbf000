// Package engine defines the public contract of the backtest engine.
package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/datasource"
	"github.com/quantexlab/quantex/internal/risk"
	"github.com/quantexlab/quantex/internal/strategy"
	"github.com/quantexlab/quantex/internal/types"
)

// OnStepCallback reports progress after each processed step.
type OnStepCallback func(current, total int)

// Engine replays a time-ordered market table through a strategy and
// produces a result bundle. One engine instance serves one run at a time;
// concurrent backtests need independently constructed engines.
type Engine interface {
	// LoadData loads and chronologically sorts the market table. Fails on
	// an empty table.
	LoadData(table *datasource.Table) error
	// RunBacktest replays the loaded data through the strategy. Requires
	// LoadData first; may be called again on the same engine, in which
	// case all accounting state is reset before the new run.
	RunBacktest(strat strategy.Strategy, startTime, endTime optional.Option[time.Time], onStep optional.Option[OnStepCallback]) (types.Result, error)
	// RiskReport returns the risk manager's view after a completed run.
	RiskReport() risk.Report
}
