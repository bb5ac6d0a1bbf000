package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type TableTestSuite struct {
	suite.Suite
	table *Table
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func (suite *TableTestSuite) SetupTest() {
	suite.table = &Table{
		Columns: []string{"close", "volume"},
		Rows: []Row{
			{Timestamp: day(3), Values: map[string]float64{"close": 103}},
			{Timestamp: day(1), Values: map[string]float64{"close": 101}},
			{Timestamp: day(2), Values: map[string]float64{"close": 102}},
		},
	}
}

func (suite *TableTestSuite) TestSortByTimestamp() {
	suite.table.SortByTimestamp()

	suite.Equal(day(1), suite.table.Rows[0].Timestamp)
	suite.Equal(day(2), suite.table.Rows[1].Timestamp)
	suite.Equal(day(3), suite.table.Rows[2].Timestamp)
}

func (suite *TableTestSuite) TestSortIsStableForEqualTimestamps() {
	table := &Table{
		Rows: []Row{
			{Timestamp: day(1), Values: map[string]float64{"close": 1}},
			{Timestamp: day(1), Values: map[string]float64{"close": 2}},
			{Timestamp: day(1), Values: map[string]float64{"close": 3}},
		},
	}

	table.SortByTimestamp()

	suite.Equal(1.0, table.Rows[0].Values["close"])
	suite.Equal(2.0, table.Rows[1].Values["close"])
	suite.Equal(3.0, table.Rows[2].Values["close"])
}

func (suite *TableTestSuite) TestSliceWithoutBoundsReturnsAll() {
	suite.table.SortByTimestamp()

	rows := suite.table.Slice(optional.None[time.Time](), optional.None[time.Time]())
	suite.Len(rows, 3)
}

func (suite *TableTestSuite) TestSliceBoundsAreInclusive() {
	suite.table.SortByTimestamp()

	rows := suite.table.Slice(optional.Some(day(2)), optional.Some(day(3)))
	suite.Len(rows, 2)
	suite.Equal(day(2), rows[0].Timestamp)
	suite.Equal(day(3), rows[1].Timestamp)
}

func (suite *TableTestSuite) TestSliceOutsideRangeIsEmpty() {
	suite.table.SortByTimestamp()

	rows := suite.table.Slice(optional.Some(day(10)), optional.None[time.Time]())
	suite.Empty(rows)

	rows = suite.table.Slice(optional.None[time.Time](), optional.Some(day(1).Add(-time.Hour)))
	suite.Empty(rows)
}

func (suite *TableTestSuite) TestRowValue() {
	row := Row{Values: map[string]float64{"close": 100.5}}

	v, ok := row.Value("close")
	suite.True(ok)
	suite.Equal(100.5, v)

	_, ok = row.Value("open")
	suite.False(ok)
}

func (suite *TableTestSuite) TestHasColumn() {
	suite.True(suite.table.HasColumn("close"))
	suite.True(suite.table.HasColumn("volume"))
	suite.False(suite.table.HasColumn("open"))
}

func (suite *TableTestSuite) TestLen() {
	suite.Equal(3, suite.table.Len())
	suite.Equal(0, (&Table{}).Len())
}
