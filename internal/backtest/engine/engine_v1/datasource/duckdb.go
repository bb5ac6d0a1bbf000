package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/quantexlab/quantex/internal/logger"
	"github.com/quantexlab/quantex/pkg/errors"
	"go.uber.org/zap"
)

// timestampColumns are the column names recognized as the row timestamp,
// in order of preference.
var timestampColumns = []string{"timestamp", "time", "date"}

// DuckDBLoader loads CSV or Parquet market data files into an in-memory
// Table through DuckDB.
type DuckDBLoader struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBLoader opens an in-memory DuckDB instance for loading market
// data files.
func NewDuckDBLoader(logger *logger.Logger) (*DuckDBLoader, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataLoadFailed, "failed to open duckdb", err)
	}

	return &DuckDBLoader{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Load reads the file at path into a Table. The file format is chosen by
// extension: .csv via read_csv_auto, .parquet via read_parquet. Rows are
// returned sorted by timestamp.
func (l *DuckDBLoader) Load(path string) (*Table, error) {
	l.logger.Debug("Loading market data", zap.String("path", path))

	var reader string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader = "read_csv_auto"
	case ".parquet":
		reader = "read_parquet"
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported data file format: %s", filepath.Ext(path))
	}

	// Recreate the view for each file - using raw SQL as Squirrel doesn't support CREATE VIEW
	if _, err := l.db.Exec(`DROP VIEW IF EXISTS market_data`); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataLoadFailed, "failed to drop existing view", err)
	}

	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s')`, reader, path)
	if _, err := l.db.Exec(query); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataLoadFailed, "failed to create market data view", err)
	}

	selectQuery := l.sq.
		Select("*").
		From("market_data").
		RunWith(l.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to read columns", err)
	}

	tsIndex := timestampIndex(columns)
	if tsIndex < 0 {
		return nil, errors.Newf(errors.ErrCodeMissingTimestamp, "no timestamp column found in %s (expected one of %v)", path, timestampColumns)
	}

	table := &Table{Columns: valueColumns(columns, tsIndex)}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))

	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to scan market data row", err)
		}

		row, err := buildRow(columns, values, tsIndex)
		if err != nil {
			return nil, err
		}

		table.Rows = append(table.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "error iterating market data", err)
	}

	if table.Len() == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no rows found in %s", path)
	}

	table.SortByTimestamp()

	l.logger.Info("Loaded market data",
		zap.String("path", path),
		zap.Int("rows", table.Len()),
		zap.Strings("columns", table.Columns),
	)

	return table, nil
}

// Close releases the underlying DuckDB instance.
func (l *DuckDBLoader) Close() error {
	return l.db.Close()
}

func timestampIndex(columns []string) int {
	for _, candidate := range timestampColumns {
		for i, c := range columns {
			if strings.EqualFold(c, candidate) {
				return i
			}
		}
	}

	return -1
}

func valueColumns(columns []string, tsIndex int) []string {
	out := make([]string, 0, len(columns)-1)

	for i, c := range columns {
		if i != tsIndex {
			out = append(out, c)
		}
	}

	return out
}

func buildRow(columns []string, values []any, tsIndex int) (Row, error) {
	ts, err := parseTimestamp(values[tsIndex])
	if err != nil {
		return Row{}, err
	}

	row := Row{Timestamp: ts, Values: make(map[string]float64, len(columns)-1)}

	for i, c := range columns {
		if i == tsIndex || values[i] == nil {
			continue
		}

		if v, ok := toFloat(values[i]); ok {
			row.Values[c] = v
		}
	}

	return row, nil
}

func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", t)
		}

		if err != nil {
			return time.Time{}, errors.Wrapf(errors.ErrCodeMalformedTimestamp, err, "cannot parse timestamp %q", t)
		}

		return parsed, nil
	default:
		return time.Time{}, errors.Newf(errors.ErrCodeMalformedTimestamp, "unsupported timestamp type %T", v)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
