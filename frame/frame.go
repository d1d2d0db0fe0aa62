// Package frame is a small labelled, column-oriented table library.
//
// Every public operation is reached through the entry-point table Lib so
// that it can be observed and wrapped at runtime. The methods on DataFrame
// and Series are plain accessors and never go through Lib.
package frame

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

type column struct {
	name   string
	values []interface{}
}

// DataFrame is a two dimensional table with row labels and named columns.
// Column names and row labels may repeat.
type DataFrame struct {
	index []string
	cols  []column
}

// Row is one record produced by IterRows.
type Row struct {
	Label   string
	Columns []string
	Values  []interface{}
}

// Get returns the value of the first column named name.
func (r Row) Get(name string) (interface{}, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	return len(df.index)
}

// Shape returns the number of rows and columns.
func (df *DataFrame) Shape() (rows, cols int) {
	return len(df.index), len(df.cols)
}

// Index returns a copy of the row labels.
func (df *DataFrame) Index() []string {
	return append([]string(nil), df.index...)
}

// Columns returns a copy of the column names in order.
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.cols))
	for i, c := range df.cols {
		names[i] = c.name
	}
	return names
}

// Value returns the cell at row position i of the first column named name.
func (df *DataFrame) Value(i int, name string) (interface{}, error) {
	if i < 0 || i >= len(df.index) {
		return nil, errors.Errorf("row %d out of range [0, %d)", i, len(df.index))
	}
	c, ok := df.column(name)
	if !ok {
		return nil, errors.Errorf("column %q not found", name)
	}
	return c.values[i], nil
}

func (df *DataFrame) column(name string) (column, bool) {
	for _, c := range df.cols {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

func (df *DataFrame) row(i int) Row {
	r := Row{
		Label:   df.index[i],
		Columns: df.Columns(),
		Values:  make([]interface{}, len(df.cols)),
	}
	for j, c := range df.cols {
		r.Values[j] = c.values[i]
	}
	return r
}

func (df *DataFrame) String() string {
	return fmt.Sprintf("DataFrame(%d rows x %d columns)", len(df.index), len(df.cols))
}

// Series is a single labelled column.
type Series struct {
	name   string
	index  []string
	values []interface{}
}

// NewSeries builds a series. A nil index gets positional labels.
func NewSeries(name string, values []interface{}, index []string) (*Series, error) {
	if index == nil {
		index = rangeIndex(len(values))
	}
	if len(index) != len(values) {
		return nil, errors.Errorf("index has %d labels but series has %d values", len(index), len(values))
	}
	return &Series{
		name:   name,
		index:  append([]string(nil), index...),
		values: append([]interface{}(nil), values...),
	}, nil
}

func (s *Series) Name() string {
	return s.name
}

func (s *Series) Len() int {
	return len(s.values)
}

func (s *Series) Index() []string {
	return append([]string(nil), s.index...)
}

func (s *Series) Values() []interface{} {
	return append([]interface{}(nil), s.values...)
}

// GroupBy holds row positions keyed by the rendered values of the grouping
// columns.
type GroupBy struct {
	by     []string
	keys   []string
	groups map[string][]int
}

func (g *GroupBy) By() []string {
	return append([]string(nil), g.by...)
}

// Keys returns the group keys in order of first appearance.
func (g *GroupBy) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Group returns the row positions belonging to key.
func (g *GroupBy) Group(key string) []int {
	return g.groups[key]
}

func (g *GroupBy) Size() map[string]int {
	sizes := make(map[string]int, len(g.groups))
	for k, rows := range g.groups {
		sizes[k] = len(rows)
	}
	return sizes
}

func rangeIndex(n int) []string {
	index := make([]string, n)
	for i := range index {
		index[i] = strconv.Itoa(i)
	}
	return index
}

func sameValue(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// Dir returns the directory holding this package's sources. Calls that
// originate there are library-internal.
func Dir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}
