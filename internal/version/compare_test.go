package version

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CompareTestSuite struct {
	suite.Suite
}

func TestCompareSuite(t *testing.T) {
	suite.Run(t, new(CompareTestSuite))
}

func (suite *CompareTestSuite) TestSameVersionIsCompatible() {
	suite.NoError(CheckCompatibility("1.2.3", "1.2.3"))
}

func (suite *CompareTestSuite) TestPatchDifferenceIsCompatible() {
	suite.NoError(CheckCompatibility("1.2.5", "1.2.0"))
	suite.NoError(CheckCompatibility("1.2.0", "1.2.9"))
}

func (suite *CompareTestSuite) TestMinorMismatchIsIncompatible() {
	err := CheckCompatibility("1.3.0", "1.2.0")
	suite.Error(err)
	suite.Contains(err.Error(), "minor version mismatch")
}

func (suite *CompareTestSuite) TestMajorMismatchIsIncompatible() {
	err := CheckCompatibility("2.0.0", "1.0.0")
	suite.Error(err)
	suite.Contains(err.Error(), "major version mismatch")
}

func (suite *CompareTestSuite) TestVPrefixIsIgnored() {
	suite.NoError(CheckCompatibility("v1.2.3", "1.2.3"))
	suite.NoError(CheckCompatibility("1.2.3", "v1.2.3"))
}

func (suite *CompareTestSuite) TestMainSkipsCheck() {
	suite.NoError(CheckCompatibility("main", "1.2.3"))
	suite.NoError(CheckCompatibility("1.2.3", "main"))
}

func (suite *CompareTestSuite) TestInvalidVersionIsRejected() {
	suite.Error(CheckCompatibility("not-a-version", "1.2.3"))
	suite.Error(CheckCompatibility("1.2.3", "not-a-version"))
}

func (suite *CompareTestSuite) TestCurrentVersionParses() {
	suite.NoError(CheckCompatibility(Version, Version))
}
