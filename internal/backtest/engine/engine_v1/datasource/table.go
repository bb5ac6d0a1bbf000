package datasource

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
)

// Row is one market observation: a timestamp plus named numeric columns
// (e.g. "close", "volume", "AAPL_close").
type Row struct {
	Timestamp time.Time
	Values    map[string]float64
}

// Value returns the named column, or false if the row does not carry it.
func (r Row) Value(column string) (float64, bool) {
	v, ok := r.Values[column]

	return v, ok
}

// Table is a time-ordered table of market observations. It is the engine's
// only data input; how the rows were produced (CSV, Parquet, synthetic) is
// the loader's concern.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// SortByTimestamp sorts the rows chronologically in place. The sort is
// stable so rows sharing a timestamp keep their input order.
func (t *Table) SortByTimestamp() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Timestamp.Before(t.Rows[j].Timestamp)
	})
}

// Slice returns the rows within [start, end], both bounds inclusive and
// optional. The returned slice aliases the table's backing array.
func (t *Table) Slice(start, end optional.Option[time.Time]) []Row {
	rows := t.Rows

	if start.IsSome() {
		s := start.Unwrap()
		i := sort.Search(len(rows), func(i int) bool {
			return !rows[i].Timestamp.Before(s)
		})
		rows = rows[i:]
	}

	if end.IsSome() {
		e := end.Unwrap()
		i := sort.Search(len(rows), func(i int) bool {
			return rows[i].Timestamp.After(e)
		})
		rows = rows[:i]
	}

	return rows
}

// HasColumn reports whether any row carries the named column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}

	return false
}
