package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Trade records one executed fill.
type Trade struct {
	Timestamp  time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol     string    `yaml:"symbol" json:"symbol"`
	Side       Side      `yaml:"side" json:"side"`
	Quantity   float64   `yaml:"quantity" json:"quantity"`
	Price      float64   `yaml:"price" json:"price"`
	Commission float64   `yaml:"commission" json:"commission"`
	Slippage   float64   `yaml:"slippage" json:"slippage"`
	// TotalCost is the trade notional at the effective price plus
	// commission, regardless of side.
	TotalCost float64 `yaml:"total_cost" json:"total_cost"`
	CashAfter float64 `yaml:"cash_after" json:"cash_after"`
	// IsClosing is true when the trade reduced, closed or reversed an
	// existing position.
	IsClosing bool `yaml:"is_closing" json:"is_closing"`
	// RealizedPnL is the realized profit or loss this trade produced.
	// Zero for opening trades.
	RealizedPnL float64 `yaml:"realized_pnl" json:"realized_pnl"`
	// StrategyName is the name of the strategy that created the order.
	StrategyName string `yaml:"strategy_name" json:"strategy_name"`
}

// HistoryRecord is one immutable snapshot taken after each time step.
type HistoryRecord struct {
	Timestamp time.Time         `yaml:"timestamp" json:"timestamp"`
	Portfolio PortfolioSnapshot `yaml:"portfolio" json:"portfolio"`
	// PeakValue is the running maximum of total value observed so far.
	PeakValue       float64 `yaml:"peak_value" json:"peak_value"`
	CurrentDrawdown float64 `yaml:"current_drawdown" json:"current_drawdown"`
	VaREstimate     float64 `yaml:"var_estimate" json:"var_estimate"`
	// Return is filled in during post-processing from consecutive total
	// value snapshots. The first step's return is always zero.
	Return float64 `yaml:"return" json:"return"`
}

// Result is the bundle returned by a completed backtest run.
type Result struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalValue     float64 `yaml:"final_value" json:"final_value"`
	TotalReturn    float64 `yaml:"total_return" json:"total_return"`
	TotalTrades    int     `yaml:"total_trades" json:"total_trades"`
	// WinRate is the fraction of closing trades with positive realized PnL.
	WinRate     float64         `yaml:"win_rate" json:"win_rate"`
	MaxDrawdown float64         `yaml:"max_drawdown" json:"max_drawdown"`
	History     []HistoryRecord `yaml:"history" json:"history"`
	Trades      []Trade         `yaml:"trades" json:"trades"`
	Orders      []Order         `yaml:"orders" json:"orders"`
}

// WriteResult writes the result bundle to a YAML file.
func WriteResult(path string, result Result) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result to file: %w", err)
	}

	return nil
}
