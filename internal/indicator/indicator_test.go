package indicator

import (
	"testing"

	"github.com/quantexlab/quantex/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestSMA() {
	value, err := SMA([]float64{1, 2, 3, 4, 5}, 5)
	suite.NoError(err)
	suite.InDelta(3.0, value, 1e-9)
}

func (suite *IndicatorTestSuite) TestSMAUsesTrailingWindow() {
	value, err := SMA([]float64{100, 1, 2, 3}, 3)
	suite.NoError(err)
	suite.InDelta(2.0, value, 1e-9)
}

func (suite *IndicatorTestSuite) TestSMAInsufficientData() {
	_, err := SMA([]float64{1, 2}, 5)
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *IndicatorTestSuite) TestSMAInvalidPeriod() {
	_, err := SMA([]float64{1, 2, 3}, 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *IndicatorTestSuite) TestEMAConstantSeries() {
	value, err := EMA([]float64{5, 5, 5, 5, 5, 5}, 3)
	suite.NoError(err)
	suite.InDelta(5.0, value, 1e-9)
}

func (suite *IndicatorTestSuite) TestEMAWeighsRecentValues() {
	rising, err := EMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	suite.NoError(err)

	sma, err := SMA([]float64{1, 2, 3, 4, 5, 6}, 6)
	suite.NoError(err)

	// on a rising series the EMA sits above the full-window SMA
	suite.Greater(rising, sma)
}

func (suite *IndicatorTestSuite) TestEMAInsufficientData() {
	_, err := EMA([]float64{1, 2}, 5)
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}
