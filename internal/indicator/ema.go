package indicator

import (
	"github.com/quantexlab/quantex/pkg/errors"
)

// EMA returns the exponential moving average of the series with the
// standard 2/(period+1) smoothing factor, seeded with the SMA of the
// first period values.
func EMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be positive, got %d", period)
	}

	if len(values) < period {
		return 0, errors.NewInsufficientDataErrorf(period, len(values), "",
			"EMA requires %d values, got %d", period, len(values))
	}

	seed, err := SMA(values[:period], period)
	if err != nil {
		return 0, err
	}

	alpha := 2.0 / float64(period+1)
	ema := seed

	for _, v := range values[period:] {
		ema = v*alpha + ema*(1-alpha)
	}

	return ema, nil
}
