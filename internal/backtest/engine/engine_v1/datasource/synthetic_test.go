package datasource

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type GeneratorTestSuite struct {
	suite.Suite
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (suite *GeneratorTestSuite) TestGenerate() {
	gen := NewGenerator(42)
	config := DefaultGeneratorConfig()
	config.Count = 100

	table := gen.Generate(config)

	suite.Equal(100, table.Len())
	suite.Equal([]string{"close", "volume"}, table.Columns)

	for i, row := range table.Rows {
		suite.Greater(row.Values["close"], 0.0, "row %d", i)
		suite.Greater(row.Values["volume"], 0.0, "row %d", i)

		if i > 0 {
			suite.True(row.Timestamp.After(table.Rows[i-1].Timestamp))
			suite.Equal(config.Interval, row.Timestamp.Sub(table.Rows[i-1].Timestamp))
		}
	}
}

func (suite *GeneratorTestSuite) TestReproducibility() {
	config := DefaultGeneratorConfig()
	config.Count = 50

	first := NewGenerator(7).Generate(config)
	second := NewGenerator(7).Generate(config)

	suite.Require().Equal(first.Len(), second.Len())

	for i := range first.Rows {
		suite.Equal(first.Rows[i].Values["close"], second.Rows[i].Values["close"])
	}
}

func (suite *GeneratorTestSuite) TestNamedSymbolColumns() {
	config := DefaultGeneratorConfig()
	config.Symbol = "AAPL"
	config.Count = 10

	table := NewGenerator(1).Generate(config)

	suite.Equal([]string{"AAPL_close", "AAPL_volume"}, table.Columns)
	suite.Contains(table.Rows[0].Values, "AAPL_close")
}

func (suite *GeneratorTestSuite) TestGenerateMultiSymbol() {
	config := DefaultGeneratorConfig()
	config.Count = 20

	table := NewGenerator(3).GenerateMultiSymbol([]string{"AAPL", "MSFT"}, config)

	suite.Equal(20, table.Len())
	suite.True(table.HasColumn("AAPL_close"))
	suite.True(table.HasColumn("MSFT_close"))
	suite.Contains(table.Rows[0].Values, "AAPL_volume")
	suite.Contains(table.Rows[0].Values, "MSFT_volume")
}

func (suite *GeneratorTestSuite) TestTrendProducesDrift() {
	config := DefaultGeneratorConfig()
	config.Count = 500
	config.Volatility = 0.0001
	config.Trend = 0.5

	table := NewGenerator(9).Generate(config)

	first := table.Rows[0].Values["close"]
	last := table.Rows[len(table.Rows)-1].Values["close"]
	suite.Greater(last, first)
}
