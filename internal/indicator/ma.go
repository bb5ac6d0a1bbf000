// Package indicator provides the technical-indicator functions consumed
// by strategies. Indicators are pure functions over a price series; they
// hold no state and know nothing about the engine.
package indicator

import (
	"github.com/quantexlab/quantex/pkg/errors"
)

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be positive, got %d", period)
	}

	if len(values) < period {
		return 0, errors.NewInsufficientDataErrorf(period, len(values), "",
			"SMA requires %d values, got %d", period, len(values))
	}

	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return sum / float64(period), nil
}
