package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Library is the entry-point table of the package. Each field is a function
// that can be swapped at runtime; the hint tag names its parameters in order.
// A trailing "name=default" marks an optional variadic scalar.
type Library struct {
	Concat  func(objs []*DataFrame, axis ...int) (*DataFrame, error)    `hint:"objs,axis=0"`
	Merge   func(left, right *DataFrame, on string) (*DataFrame, error) `hint:"left,right,on"`
	ReadCSV func(path string, indexCol ...int) (*DataFrame, error)      `hint:"filepath,index_col=-1"`

	DataFrame FrameMethods
	Series    SeriesMethods
}

// FrameMethods are the DataFrame entry points. The receiver is the first
// parameter and is bound as "self".
type FrameMethods struct {
	New      func(data map[string][]interface{}, columns []string, index []string) (*DataFrame, error) `hint:"data,columns,index"`
	IterRows func(df *DataFrame) []Row                                                                 `hint:"self"`
	GroupBy  func(df *DataFrame, by ...string) (*GroupBy, error)                                       `hint:"self,by"`
	Eq       func(df, other *DataFrame) (*DataFrame, error)                                            `hint:"self,other"`
	Equals   func(df, other *DataFrame) bool                                                           `hint:"self,other"`
	Column   func(df *DataFrame, key string) (*Series, error)                                          `hint:"self,key"`
	ToCSV    func(df *DataFrame, path string) error                                                    `hint:"self,path"`
}

// SeriesMethods are the Series entry points.
type SeriesMethods struct {
	Eq      func(s, other *Series) (*Series, error) `hint:"self,other"`
	Equals  func(s, other *Series) bool             `hint:"self,other"`
	NUnique func(s *Series) int                     `hint:"self"`
}

// Lib is the process-wide entry-point table.
var Lib = &Library{}

func init() {
	*Lib = Library{
		Concat:  concat,
		Merge:   merge,
		ReadCSV: readCSV,
		DataFrame: FrameMethods{
			New:      newDataFrame,
			IterRows: iterRows,
			GroupBy:  groupBy,
			Eq:       frameEq,
			Equals:   frameEquals,
			Column:   getColumn,
			ToCSV:    toCSV,
		},
		Series: SeriesMethods{
			Eq:      seriesEq,
			Equals:  seriesEquals,
			NUnique: nunique,
		},
	}
}

func newDataFrame(data map[string][]interface{}, columns []string, index []string) (*DataFrame, error) {
	if columns == nil {
		for name := range data {
			columns = append(columns, name)
		}
		sort.Strings(columns)
	}
	n := -1
	df := &DataFrame{}
	for _, name := range columns {
		values, ok := data[name]
		if !ok {
			return nil, errors.Errorf("column %q has no data", name)
		}
		if n == -1 {
			n = len(values)
		} else if len(values) != n {
			return nil, errors.Errorf("column %q has %d values, expected %d", name, len(values), n)
		}
		df.cols = append(df.cols, column{name: name, values: append([]interface{}(nil), values...)})
	}
	if n == -1 {
		n = len(index)
	}
	if index == nil {
		index = rangeIndex(n)
	}
	if len(index) != n {
		return nil, errors.Errorf("index has %d labels, expected %d", len(index), n)
	}
	df.index = append([]string(nil), index...)
	return df, nil
}

func concat(objs []*DataFrame, axis ...int) (*DataFrame, error) {
	ax := 0
	if len(axis) > 0 {
		ax = axis[0]
	}
	if len(objs) == 0 {
		return nil, errors.New("no objects to concatenate")
	}
	switch ax {
	case 0:
		return concatRows(objs), nil
	case 1:
		return concatColumns(objs), nil
	default:
		return nil, errors.Errorf("no axis named %d", ax)
	}
}

func concatRows(objs []*DataFrame) *DataFrame {
	var names []string
	seen := make(map[string]bool)
	for _, df := range objs {
		for _, c := range df.cols {
			if !seen[c.name] {
				seen[c.name] = true
				names = append(names, c.name)
			}
		}
	}
	out := &DataFrame{}
	for _, df := range objs {
		out.index = append(out.index, df.index...)
	}
	for _, name := range names {
		col := column{name: name}
		for _, df := range objs {
			c, ok := df.column(name)
			if !ok {
				col.values = append(col.values, make([]interface{}, len(df.index))...)
				continue
			}
			col.values = append(col.values, c.values...)
		}
		out.cols = append(out.cols, col)
	}
	return out
}

func concatColumns(objs []*DataFrame) *DataFrame {
	out := &DataFrame{}
	seen := make(map[string]bool)
	for _, df := range objs {
		for _, label := range df.index {
			if !seen[label] {
				seen[label] = true
				out.index = append(out.index, label)
			}
		}
	}
	for _, df := range objs {
		pos := make(map[string]int, len(df.index))
		for i := len(df.index) - 1; i >= 0; i-- {
			pos[df.index[i]] = i
		}
		for _, c := range df.cols {
			col := column{name: c.name, values: make([]interface{}, len(out.index))}
			for i, label := range out.index {
				if j, ok := pos[label]; ok {
					col.values[i] = c.values[j]
				}
			}
			out.cols = append(out.cols, col)
		}
	}
	return out
}

// merge is an inner join on a shared column. Rows are walked through Lib so
// the library's own traffic is visible to anything wrapping IterRows.
func merge(left, right *DataFrame, on string) (*DataFrame, error) {
	if _, ok := left.column(on); !ok {
		return nil, errors.Errorf("left frame has no column %q", on)
	}
	if _, ok := right.column(on); !ok {
		return nil, errors.Errorf("right frame has no column %q", on)
	}

	byKey := make(map[string][]Row)
	for _, r := range Lib.DataFrame.IterRows(right) {
		v, _ := r.Get(on)
		key := fmt.Sprint(v)
		byKey[key] = append(byKey[key], r)
	}

	names := []string{on}
	leftNames := otherColumns(left, on)
	rightNames := otherColumns(right, on)
	clash := make(map[string]bool)
	for _, l := range leftNames {
		for _, r := range rightNames {
			if l == r {
				clash[l] = true
			}
		}
	}
	for _, n := range leftNames {
		if clash[n] {
			n += "_x"
		}
		names = append(names, n)
	}
	for _, n := range rightNames {
		if clash[n] {
			n += "_y"
		}
		names = append(names, n)
	}

	data := make(map[string][]interface{}, len(names))
	rows := 0
	for _, l := range Lib.DataFrame.IterRows(left) {
		key, _ := l.Get(on)
		for _, r := range byKey[fmt.Sprint(key)] {
			values := []interface{}{key}
			for _, n := range leftNames {
				v, _ := l.Get(n)
				values = append(values, v)
			}
			for _, n := range rightNames {
				v, _ := r.Get(n)
				values = append(values, v)
			}
			for i, n := range names {
				data[n] = append(data[n], values[i])
			}
			rows++
		}
	}
	for _, n := range names {
		if data[n] == nil {
			data[n] = []interface{}{}
		}
	}
	return newDataFrame(data, names, rangeIndex(rows))
}

func otherColumns(df *DataFrame, skip string) []string {
	var names []string
	for _, c := range df.cols {
		if c.name != skip {
			names = append(names, c.name)
		}
	}
	return names
}

func iterRows(df *DataFrame) []Row {
	rows := make([]Row, len(df.index))
	for i := range df.index {
		rows[i] = df.row(i)
	}
	return rows
}

func groupBy(df *DataFrame, by ...string) (*GroupBy, error) {
	if len(by) == 0 {
		return nil, errors.New("no grouping columns given")
	}
	cols := make([]column, len(by))
	for i, name := range by {
		c, ok := df.column(name)
		if !ok {
			return nil, errors.Errorf("column %q not found", name)
		}
		cols[i] = c
	}
	g := &GroupBy{by: append([]string(nil), by...), groups: make(map[string][]int)}
	parts := make([]string, len(cols))
	for i := range df.index {
		for j, c := range cols {
			parts[j] = fmt.Sprint(c.values[i])
		}
		key := strings.Join(parts, "|")
		if _, ok := g.groups[key]; !ok {
			g.keys = append(g.keys, key)
		}
		g.groups[key] = append(g.groups[key], i)
	}
	return g, nil
}

func frameEq(df, other *DataFrame) (*DataFrame, error) {
	if !sameStrings(df.index, other.index) || !sameStrings(df.Columns(), other.Columns()) {
		return nil, errors.New("can only compare identically-labeled frames")
	}
	out := &DataFrame{index: append([]string(nil), df.index...)}
	for j, c := range df.cols {
		col := column{name: c.name, values: make([]interface{}, len(c.values))}
		for i, v := range c.values {
			col.values[i] = sameValue(v, other.cols[j].values[i])
		}
		out.cols = append(out.cols, col)
	}
	return out, nil
}

func frameEquals(df, other *DataFrame) bool {
	if df == nil || other == nil {
		return df == other
	}
	if !sameStrings(df.index, other.index) || !sameStrings(df.Columns(), other.Columns()) {
		return false
	}
	for j, c := range df.cols {
		for i, v := range c.values {
			if !sameValue(v, other.cols[j].values[i]) {
				return false
			}
		}
	}
	return true
}

func getColumn(df *DataFrame, key string) (*Series, error) {
	c, ok := df.column(key)
	if !ok {
		return nil, errors.Errorf("column %q not found", key)
	}
	return NewSeries(c.name, c.values, df.index)
}

func seriesEq(s, other *Series) (*Series, error) {
	if !sameStrings(s.index, other.index) {
		return nil, errors.New("can only compare identically-labeled series")
	}
	values := make([]interface{}, len(s.values))
	for i, v := range s.values {
		values[i] = sameValue(v, other.values[i])
	}
	return NewSeries(s.name, values, s.index)
}

func seriesEquals(s, other *Series) bool {
	if s == nil || other == nil {
		return s == other
	}
	if !sameStrings(s.index, other.index) || len(s.values) != len(other.values) {
		return false
	}
	for i, v := range s.values {
		if !sameValue(v, other.values[i]) {
			return false
		}
	}
	return true
}

func nunique(s *Series) int {
	seen := make(map[string]bool)
	for _, v := range s.values {
		if v == nil {
			continue
		}
		seen[fmt.Sprintf("%T:%v", v, v)] = true
	}
	return len(seen)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
