package frame_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ListenOcean/goTableHint/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, data map[string][]interface{}, columns, index []string) *frame.DataFrame {
	t.Helper()
	df, err := frame.Lib.DataFrame.New(data, columns, index)
	require.NoError(t, err)
	return df
}

func TestNewDataFrame(t *testing.T) {
	df := mustFrame(t, map[string][]interface{}{"b": {1, 2}, "a": {"x", "y"}}, nil, nil)
	assert.Equal(t, []string{"a", "b"}, df.Columns())
	assert.Equal(t, []string{"0", "1"}, df.Index())
	rows, cols := df.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, "DataFrame(2 rows x 2 columns)", df.String())

	v, err := df.Value(1, "a")
	require.NoError(t, err)
	assert.Equal(t, "y", v)
	_, err = df.Value(2, "a")
	assert.Error(t, err)
	_, err = df.Value(0, "z")
	assert.Error(t, err)

	_, err = frame.Lib.DataFrame.New(map[string][]interface{}{"a": {1}, "b": {1, 2}}, []string{"a", "b"}, nil)
	assert.Error(t, err)
	_, err = frame.Lib.DataFrame.New(map[string][]interface{}{"a": {1}}, []string{"a", "c"}, nil)
	assert.Error(t, err)
	_, err = frame.Lib.DataFrame.New(map[string][]interface{}{"a": {1}}, nil, []string{"r1", "r2"})
	assert.Error(t, err)
}

func TestConcatRows(t *testing.T) {
	a := mustFrame(t, map[string][]interface{}{"x": {1, 2}}, nil, nil)
	b := mustFrame(t, map[string][]interface{}{"x": {3}, "y": {"k"}}, nil, nil)

	out, err := frame.Lib.Concat([]*frame.DataFrame{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "0"}, out.Index())
	assert.Equal(t, []string{"x", "y"}, out.Columns())
	y, err := out.Value(0, "y")
	require.NoError(t, err)
	assert.Nil(t, y)
	y, _ = out.Value(2, "y")
	assert.Equal(t, "k", y)

	_, err = frame.Lib.Concat(nil)
	assert.Error(t, err)
	_, err = frame.Lib.Concat([]*frame.DataFrame{a}, 2)
	assert.Error(t, err)
}

func TestConcatColumns(t *testing.T) {
	a := mustFrame(t, map[string][]interface{}{"x": {1, 2}}, nil, []string{"r1", "r2"})
	b := mustFrame(t, map[string][]interface{}{"x": {9}, "z": {true}}, []string{"x", "z"}, []string{"r2"})

	out, err := frame.Lib.Concat([]*frame.DataFrame{a, b}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, out.Index())
	assert.Equal(t, []string{"x", "x", "z"}, out.Columns())
	z, _ := out.Value(0, "z")
	assert.Nil(t, z)
	z, _ = out.Value(1, "z")
	assert.Equal(t, true, z)
}

func TestMerge(t *testing.T) {
	left := mustFrame(t, map[string][]interface{}{"id": {1, 2, 3}, "v": {"a", "b", "c"}}, []string{"id", "v"}, nil)
	right := mustFrame(t, map[string][]interface{}{"id": {2, 3, 3}, "v": {"B", "C", "C2"}, "w": {20, 30, 31}}, []string{"id", "v", "w"}, nil)

	out, err := frame.Lib.Merge(left, right, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "v_x", "v_y", "w"}, out.Columns())
	assert.Equal(t, 3, out.Len())
	vy, _ := out.Value(2, "v_y")
	assert.Equal(t, "C2", vy)

	_, err = frame.Lib.Merge(left, right, "nope")
	assert.Error(t, err)
}

func TestIterRowsAndGroupBy(t *testing.T) {
	df := mustFrame(t, map[string][]interface{}{"k": {"a", "b", "a"}, "n": {1, 2, 3}}, []string{"k", "n"}, nil)

	rows := frame.Lib.DataFrame.IterRows(df)
	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[2].Label)
	n, ok := rows[2].Get("n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = rows[0].Get("missing")
	assert.False(t, ok)

	g, err := frame.Lib.DataFrame.GroupBy(df, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, g.By())
	assert.Equal(t, []string{"a", "b"}, g.Keys())
	assert.Equal(t, []int{0, 2}, g.Group("a"))
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, g.Size())

	_, err = frame.Lib.DataFrame.GroupBy(df)
	assert.Error(t, err)
	_, err = frame.Lib.DataFrame.GroupBy(df, "zz")
	assert.Error(t, err)
}

func TestEquality(t *testing.T) {
	a := mustFrame(t, map[string][]interface{}{"x": {1, 2}}, nil, nil)
	b := mustFrame(t, map[string][]interface{}{"x": {1, 3}}, nil, nil)

	eq, err := frame.Lib.DataFrame.Eq(a, b)
	require.NoError(t, err)
	first, _ := eq.Value(0, "x")
	second, _ := eq.Value(1, "x")
	assert.Equal(t, true, first)
	assert.Equal(t, false, second)
	assert.False(t, frame.Lib.DataFrame.Equals(a, b))
	assert.True(t, frame.Lib.DataFrame.Equals(a, a))

	c := mustFrame(t, map[string][]interface{}{"y": {1, 2}}, nil, nil)
	_, err = frame.Lib.DataFrame.Eq(a, c)
	assert.Error(t, err)

	sa, err := frame.Lib.DataFrame.Column(a, "x")
	require.NoError(t, err)
	sb, err := frame.Lib.DataFrame.Column(b, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", sa.Name())
	se, err := frame.Lib.Series.Eq(sa, sb)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{true, false}, se.Values())
	assert.False(t, frame.Lib.Series.Equals(sa, sb))
	assert.True(t, frame.Lib.Series.Equals(sa, sa))
	_, err = frame.Lib.DataFrame.Column(a, "nope")
	assert.Error(t, err)
}

func TestNUnique(t *testing.T) {
	s, err := frame.NewSeries("s", []interface{}{1, 1, "1", nil, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Lib.Series.NUnique(s))
	assert.Equal(t, 5, s.Len())

	_, err = frame.NewSeries("s", []interface{}{1}, []string{"a", "b"})
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	df := mustFrame(t, map[string][]interface{}{"a": {int64(1), int64(2)}, "b": {"x", nil}, "c": {1.5, true}}, []string{"a", "b", "c"}, nil)
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, frame.Lib.DataFrame.ToCSV(df, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ",a,b,c\n0,1,x,1.5\n1,2,,true\n", string(raw))

	back, err := frame.Lib.ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "a", "b", "c"}, back.Columns())
	v, _ := back.Value(1, "Unnamed: 0")
	assert.Equal(t, int64(1), v)
	v, _ = back.Value(1, "b")
	assert.Nil(t, v)

	indexed, err := frame.Lib.ReadCSV(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, indexed.Columns())
	assert.Equal(t, []string{"0", "1"}, indexed.Index())
	assert.True(t, frame.Lib.DataFrame.Equals(df, indexed))

	_, err = frame.Lib.ReadCSV(path, 9)
	assert.Error(t, err)
	_, err = frame.Lib.ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, frame.Dir())
}
