package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/quantexlab/quantex/pkg/errors"
)

type Side string

type OrderType string

type OrderStatus string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStop      OrderType = "STOP"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusPartial   OrderStatus = "PARTIAL"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

// Order is a single instruction to trade one instrument.
type Order struct {
	OrderID  string    `yaml:"order_id" json:"order_id"`
	Symbol   string    `yaml:"symbol" json:"symbol" validate:"required"`
	Side     Side      `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Type     OrderType `yaml:"type" json:"type" validate:"required,oneof=MARKET LIMIT STOP STOP_LIMIT"`
	Quantity float64   `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	// LimitPrice is required for LIMIT and STOP_LIMIT orders.
	LimitPrice optional.Option[float64] `yaml:"limit_price" json:"limit_price"`
	// StopPrice is the trigger price for STOP and STOP_LIMIT orders.
	StopPrice optional.Option[float64] `yaml:"stop_price" json:"stop_price"`
	// Timestamp is assigned at fill time.
	Timestamp time.Time   `yaml:"timestamp" json:"timestamp"`
	Status    OrderStatus `yaml:"status" json:"status"`
	// RejectReason records why a risk check turned the order down.
	RejectReason   string  `yaml:"reject_reason,omitempty" json:"reject_reason,omitempty"`
	FilledQuantity float64 `yaml:"filled_quantity" json:"filled_quantity"`
	FilledPrice    float64 `yaml:"filled_price" json:"filled_price"`
	Commission     float64 `yaml:"commission" json:"commission"`
	Slippage       float64 `yaml:"slippage" json:"slippage"`
	// StrategyName is the name of the strategy that created this order.
	StrategyName string `yaml:"strategy_name" json:"strategy_name"`
}

// IsTerminal reports whether the status admits no further transitions.
// Order status transitions are monotonic: PENDING may move to any other
// status; FILLED, CANCELLED and REJECTED are terminal.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled || s == OrderStatusRejected
}

// SignedQuantity returns the quantity with buy positive and sell negative.
func (o *Order) SignedQuantity() float64 {
	if o.Side == SideSell {
		return -o.Quantity
	}

	return o.Quantity
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	// Limit-style orders need a limit price to resolve a fill
	if o.Type == OrderTypeLimit && o.LimitPrice.IsNone() {
		return errors.Newf(errors.ErrCodeInvalidPrice, "limit order for %s has no limit price", o.Symbol)
	}

	return nil
}
