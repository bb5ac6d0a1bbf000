// Package engine_v1 implements the first-generation backtest engine: a
// single-threaded event loop replaying a chronologically sorted market
// table through a strategy, with risk gating and cost modelling on every
// fill.
package engine_v1

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/quantexlab/quantex/internal/backtest/engine"
	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/costmodel"
	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/datasource"
	"github.com/quantexlab/quantex/internal/logger"
	"github.com/quantexlab/quantex/internal/risk"
	"github.com/quantexlab/quantex/internal/strategy"
	"github.com/quantexlab/quantex/internal/types"
	"github.com/quantexlab/quantex/internal/version"
	"github.com/quantexlab/quantex/pkg/errors"
	"go.uber.org/zap"
)

type engineState int

const (
	stateNotLoaded engineState = iota
	stateLoaded
	stateRunning
	stateCompleted
)

// BacktestEngineV1 replays market data step by step. Not safe for
// concurrent use: one instance serves one run at a time, and rerunning
// resets all accounting state first.
type BacktestEngineV1 struct {
	config      BacktestEngineV1Config
	log         *logger.Logger
	costModel   costmodel.CostModel
	riskManager *risk.Manager

	table *datasource.Table
	state engineState

	portfolio *types.Portfolio
	// currentPrices carries the last seen close per symbol forward across
	// steps, so instruments missing from a row keep their previous price.
	currentPrices map[string]float64

	trades  []types.Trade
	orders  []types.Order
	history []types.HistoryRecord
}

var _ engine.Engine = (*BacktestEngineV1)(nil)

// NewBacktestEngineV1 creates an engine from a validated config.
func NewBacktestEngineV1(config BacktestEngineV1Config, log *logger.Logger) (*BacktestEngineV1, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &BacktestEngineV1{
		config:        config,
		log:           log,
		costModel:     config.buildCostModel(),
		riskManager:   risk.NewManager(config.Risk, log),
		portfolio:     types.NewPortfolio(config.InitialCapital, config.Leverage),
		currentPrices: make(map[string]float64),
	}, nil
}

// LoadData stores the market table, sorted chronologically. The table
// must be non-empty.
func (e *BacktestEngineV1) LoadData(table *datasource.Table) error {
	if table == nil || table.Len() == 0 {
		return errors.New(errors.ErrCodeNoDataLoaded, "cannot load an empty market table")
	}

	table.SortByTimestamp()
	e.table = table
	e.state = stateLoaded

	e.log.Info("Market data loaded",
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)),
	)

	return nil
}

// RunBacktest replays the loaded table through the strategy. The optional
// bounds restrict the run to rows within [startTime, endTime]; an empty
// selection is an error. Rerunning on the same engine resets the
// portfolio, the risk manager and all recorded output first.
func (e *BacktestEngineV1) RunBacktest(strat strategy.Strategy, startTime, endTime optional.Option[time.Time], onStep optional.Option[engine.OnStepCallback]) (types.Result, error) {
	if e.state == stateNotLoaded || e.table == nil {
		return types.Result{}, errors.New(errors.ErrCodeNoDataLoaded, "no data loaded; call LoadData first")
	}

	if vs, ok := strat.(strategy.VersionedStrategy); ok {
		if err := version.CheckCompatibility(version.Version, vs.MinEngineVersion()); err != nil {
			return types.Result{}, errors.Wrapf(errors.ErrCodeVersionMismatch, err,
				"strategy %s is incompatible with engine %s", strat.Name(), version.Version)
		}
	}

	rows := e.table.Slice(startTime, endTime)
	if len(rows) == 0 {
		return types.Result{}, errors.New(errors.ErrCodeEmptyDateRange, "no data in the requested date range")
	}

	e.reset()
	e.state = stateRunning

	e.log.Info("Backtest started",
		zap.String("strategy", strat.Name()),
		zap.Int("steps", len(rows)),
		zap.Float64("initial_capital", e.config.InitialCapital),
	)

	total := len(rows)
	for i, row := range rows {
		e.updatePrices(row)

		window := rows[:i+1]
		candidates, err := strat.GenerateSignals(window, row.Timestamp)
		if err != nil {
			// a failing step loses only that step's signals
			e.log.Error("Strategy error, skipping step signals",
				zap.String("strategy", strat.Name()),
				zap.Time("timestamp", row.Timestamp),
				zap.Error(err),
			)
			candidates = nil
		}

		for _, order := range candidates {
			e.executeOrder(order, strat.Name(), row)
		}

		e.recordStep(row.Timestamp)

		if onStep.IsSome() {
			onStep.Unwrap()(i+1, total)
		}
	}

	e.fillReturns()
	result := e.buildResult()
	e.state = stateCompleted

	e.log.Info("Backtest completed",
		zap.Float64("final_value", result.FinalValue),
		zap.Float64("total_return", result.TotalReturn),
		zap.Int("total_trades", result.TotalTrades),
		zap.Float64("max_drawdown", result.MaxDrawdown),
	)

	return result, nil
}

// RiskReport returns the risk manager's view of the current portfolio.
func (e *BacktestEngineV1) RiskReport() risk.Report {
	return e.riskManager.Report(e.portfolio)
}

// PositionLimitViolations reports current position-limit breaches.
func (e *BacktestEngineV1) PositionLimitViolations() []risk.Violation {
	return e.riskManager.CheckPositionLimits(e.portfolio, e.currentPrices)
}

func (e *BacktestEngineV1) reset() {
	e.portfolio = types.NewPortfolio(e.config.InitialCapital, e.config.Leverage)
	e.riskManager.Reset()
	e.currentPrices = make(map[string]float64)
	e.trades = nil
	e.orders = nil
	e.history = nil
}

// updatePrices refreshes the per-symbol close prices from one row. A bare
// "close" column belongs to the default symbol; "<symbol>_close" columns
// belong to their prefix.
func (e *BacktestEngineV1) updatePrices(row datasource.Row) {
	for column, value := range row.Values {
		if column == "close" {
			e.currentPrices[strategy.DefaultSymbol] = value
			continue
		}

		if symbol, ok := strings.CutSuffix(column, "_close"); ok && symbol != "" {
			e.currentPrices[symbol] = value
		}
	}
}

// executeOrder runs one candidate order through validation, fill-price
// resolution, the risk gate and cost modelling. Every order is recorded in
// the order log with its final status, rejected and unfilled ones included.
func (e *BacktestEngineV1) executeOrder(order types.Order, strategyName string, row datasource.Row) {
	if order.OrderID == "" {
		order.OrderID = uuid.New().String()
	}
	if order.StrategyName == "" {
		order.StrategyName = strategyName
	}
	order.Timestamp = row.Timestamp
	order.Status = types.OrderStatusPending

	if err := order.Validate(); err != nil {
		order.Status = types.OrderStatusRejected
		order.RejectReason = err.Error()
		e.log.Warn("Order rejected: validation failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
		e.orders = append(e.orders, order)

		return
	}

	price, ok := e.currentPrices[order.Symbol]
	if !ok {
		e.log.Warn("Order not filled: no price available",
			zap.String("order_id", order.OrderID),
			zap.String("symbol", order.Symbol),
		)
		e.orders = append(e.orders, order)

		return
	}

	fillPrice, filled := resolveFillPrice(order, price)
	if !filled {
		e.orders = append(e.orders, order)

		return
	}

	if approved, reason := e.riskManager.CheckOrder(order, e.portfolio, e.currentPrices); !approved {
		order.Status = types.OrderStatusRejected
		order.RejectReason = reason
		e.log.Warn("Order rejected by risk manager",
			zap.String("order_id", order.OrderID),
			zap.String("symbol", order.Symbol),
			zap.String("reason", reason),
		)
		e.orders = append(e.orders, order)

		return
	}

	order.FilledQuantity = order.Quantity
	order.FilledPrice = fillPrice
	commission, slippage := e.costModel.Calculate(order, costmodel.MarketContext{
		AverageVolume: e.averageVolume(order.Symbol, row),
	})

	// slippage always moves the effective price against the trader
	effectivePrice := fillPrice + slippage
	if order.Side == types.SideSell {
		effectivePrice = fillPrice - slippage
	}

	order.FilledPrice = effectivePrice
	order.Commission = commission
	order.Slippage = slippage
	order.Status = types.OrderStatusFilled

	position := e.portfolio.Position(order.Symbol)
	signedQuantity := order.SignedQuantity()
	isClosing := position.Quantity != 0 && (position.Quantity > 0) != (signedQuantity > 0)

	realizedBefore := position.RealizedPnL
	position.ApplyFill(signedQuantity, effectivePrice, price)
	realizedDelta := position.RealizedPnL - realizedBefore

	tradeValue := order.Quantity * effectivePrice
	if order.Side == types.SideBuy {
		e.portfolio.Cash -= tradeValue + commission
	} else {
		e.portfolio.Cash += tradeValue - commission
	}

	e.orders = append(e.orders, order)
	e.trades = append(e.trades, types.Trade{
		Timestamp:    order.Timestamp,
		Symbol:       order.Symbol,
		Side:         order.Side,
		Quantity:     order.Quantity,
		Price:        effectivePrice,
		Commission:   commission,
		Slippage:     slippage,
		TotalCost:    tradeValue + commission,
		CashAfter:    e.portfolio.Cash,
		IsClosing:    isClosing,
		RealizedPnL:  realizedDelta,
		StrategyName: order.StrategyName,
	})

	e.log.Info("Order filled",
		zap.String("order_id", order.OrderID),
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", order.Quantity),
		zap.Float64("price", effectivePrice),
		zap.Float64("commission", commission),
	)
}

// resolveFillPrice decides whether the order fills against the current
// price and at what price. Unfilled orders stay PENDING for this step;
// the engine does not keep a resting order book, so they are simply
// recorded.
func resolveFillPrice(order types.Order, price float64) (float64, bool) {
	switch order.Type {
	case types.OrderTypeMarket:
		return price, true

	case types.OrderTypeLimit:
		// limit orders fill at the limit price once the market trades
		// through it
		limit := order.LimitPrice.Unwrap()
		if order.Side == types.SideBuy && price <= limit {
			return limit, true
		}
		if order.Side == types.SideSell && price >= limit {
			return limit, true
		}

		return 0, false

	case types.OrderTypeStop, types.OrderTypeStopLimit:
		stop, err := order.StopPrice.Take()
		if err != nil {
			// no trigger price: behaves like a market order
			return price, true
		}

		triggered := (order.Side == types.SideBuy && price >= stop) ||
			(order.Side == types.SideSell && price <= stop)
		if !triggered {
			return 0, false
		}

		if order.Type == types.OrderTypeStopLimit {
			if limit, err := order.LimitPrice.Take(); err == nil {
				if order.Side == types.SideBuy && price > limit {
					return 0, false
				}
				if order.Side == types.SideSell && price < limit {
					return 0, false
				}
			}
		}

		return price, true
	}

	return 0, false
}

// averageVolume reads the symbol's volume column from the row, falling
// back to the bare "volume" column. Zero means unknown; the cost model
// substitutes its default.
func (e *BacktestEngineV1) averageVolume(symbol string, row datasource.Row) float64 {
	if symbol != strategy.DefaultSymbol {
		if v, ok := row.Value(symbol + "_volume"); ok {
			return v
		}
	}

	v, _ := row.Value("volume")

	return v
}

// recordStep revalues the portfolio, refreshes the risk metrics and
// appends the step's history record.
func (e *BacktestEngineV1) recordStep(timestamp time.Time) {
	snapshot := e.portfolio.Revalue(e.currentPrices)
	metrics := e.riskManager.UpdateMetrics(e.portfolio)

	if n := len(e.history); n > 0 {
		prev := e.history[n-1].Portfolio.TotalValue
		if prev != 0 {
			e.riskManager.RecordReturn((snapshot.TotalValue - prev) / prev)
		}
	}

	e.history = append(e.history, types.HistoryRecord{
		Timestamp:       timestamp,
		Portfolio:       snapshot,
		PeakValue:       metrics.PeakValue,
		CurrentDrawdown: metrics.CurrentDrawdown,
		VaREstimate:     metrics.VaREstimate,
	})
}

// fillReturns computes per-step returns from consecutive total values.
// The first step's return is zero.
func (e *BacktestEngineV1) fillReturns() {
	for i := 1; i < len(e.history); i++ {
		prev := e.history[i-1].Portfolio.TotalValue
		if prev != 0 {
			e.history[i].Return = (e.history[i].Portfolio.TotalValue - prev) / prev
		}
	}
}

func (e *BacktestEngineV1) buildResult() types.Result {
	finalValue := e.config.InitialCapital

	// Max drawdown comes purely from the recorded total values; the risk
	// manager's drawdown state also reflects pre-trade gate observations
	// and serves only the per-order gate.
	var maxDrawdown, peak float64

	for _, record := range e.history {
		v := record.Portfolio.TotalValue
		if v > peak {
			peak = v
		}

		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	if n := len(e.history); n > 0 {
		finalValue = e.history[n-1].Portfolio.TotalValue
	}

	var totalReturn float64
	if e.config.InitialCapital != 0 {
		totalReturn = (finalValue - e.config.InitialCapital) / e.config.InitialCapital
	}

	var closingTrades, winningTrades int
	for _, trade := range e.trades {
		if !trade.IsClosing {
			continue
		}

		closingTrades++
		if trade.RealizedPnL > 0 {
			winningTrades++
		}
	}

	var winRate float64
	if closingTrades > 0 {
		winRate = float64(winningTrades) / float64(closingTrades)
	}

	return types.Result{
		InitialCapital: e.config.InitialCapital,
		FinalValue:     finalValue,
		TotalReturn:    totalReturn,
		TotalTrades:    len(e.trades),
		WinRate:        winRate,
		MaxDrawdown:    maxDrawdown,
		History:        e.history,
		Trades:         e.trades,
		Orders:         e.orders,
	}
}
