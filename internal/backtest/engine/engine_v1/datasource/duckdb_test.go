package datasource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantexlab/quantex/internal/logger"
	"github.com/quantexlab/quantex/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBLoaderTestSuite struct {
	suite.Suite
	loader *DuckDBLoader
}

func TestDuckDBLoaderSuite(t *testing.T) {
	suite.Run(t, new(DuckDBLoaderTestSuite))
}

func (suite *DuckDBLoaderTestSuite) SetupTest() {
	loader, err := NewDuckDBLoader(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.loader = loader
}

func (suite *DuckDBLoaderTestSuite) TearDownTest() {
	suite.NoError(suite.loader.Close())
}

func (suite *DuckDBLoaderTestSuite) writeCSV(name, content string) string {
	path := filepath.Join(suite.T().TempDir(), name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (suite *DuckDBLoaderTestSuite) TestLoadCSV() {
	path := suite.writeCSV("data.csv", `timestamp,close,volume
2024-01-02,101.5,1200
2024-01-01,100.0,1000
2024-01-03,99.0,900
`)

	table, err := suite.loader.Load(path)
	suite.Require().NoError(err)

	suite.Equal(3, table.Len())
	suite.ElementsMatch([]string{"close", "volume"}, table.Columns)

	// rows come back sorted by timestamp
	suite.Equal(100.0, table.Rows[0].Values["close"])
	suite.Equal(101.5, table.Rows[1].Values["close"])
	suite.Equal(99.0, table.Rows[2].Values["close"])
	suite.Equal(1000.0, table.Rows[0].Values["volume"])
}

func (suite *DuckDBLoaderTestSuite) TestLoadRecognizesAlternateTimestampColumn() {
	path := suite.writeCSV("data.csv", `date,close
2024-01-01,100.0
2024-01-02,101.0
`)

	table, err := suite.loader.Load(path)
	suite.Require().NoError(err)
	suite.Equal(2, table.Len())
	suite.Equal([]string{"close"}, table.Columns)
}

func (suite *DuckDBLoaderTestSuite) TestLoadRejectsUnsupportedExtension() {
	_, err := suite.loader.Load("data.xlsx")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedFormat))
}

func (suite *DuckDBLoaderTestSuite) TestLoadFailsWithoutTimestampColumn() {
	path := suite.writeCSV("data.csv", `open,close
100.0,101.0
`)

	_, err := suite.loader.Load(path)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingTimestamp))
}

func (suite *DuckDBLoaderTestSuite) TestLoadFailsOnEmptyFile() {
	path := suite.writeCSV("data.csv", `timestamp,close
`)

	_, err := suite.loader.Load(path)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *DuckDBLoaderTestSuite) TestLoadMissingFileFails() {
	_, err := suite.loader.Load(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataLoadFailed))
}

func (suite *DuckDBLoaderTestSuite) TestMultiSymbolColumns() {
	path := suite.writeCSV("data.csv", `timestamp,AAPL_close,MSFT_close
2024-01-01,180.0,370.0
2024-01-02,181.0,371.0
`)

	table, err := suite.loader.Load(path)
	suite.Require().NoError(err)
	suite.True(table.HasColumn("AAPL_close"))
	suite.True(table.HasColumn("MSFT_close"))
	suite.Equal(180.0, table.Rows[0].Values["AAPL_close"])
}
