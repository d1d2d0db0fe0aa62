package advice_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ListenOcean/goTableHint/advice"
	"github.com/ListenOcean/goTableHint/configs"
	"github.com/ListenOcean/goTableHint/frame"
	"github.com/ListenOcean/goTableHint/hooklib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	messages []hooklib.Message
}

func (b *inbox) sink(m hooklib.Message) {
	b.messages = append(b.messages, m)
}

func (b *inbox) count(substr string) int {
	n := 0
	for _, m := range b.messages {
		if strings.Contains(m.Text(), substr) {
			n++
		}
	}
	return n
}

// install wires the built-in hints over frame.Lib. Only the frame package is
// restricted so that calls made from this test file are advised.
func install(t *testing.T) *inbox {
	t.Helper()
	box := &inbox{}
	l, err := hooklib.New(frame.Lib,
		hooklib.WithOutput(hooklib.Sink(box.sink)),
		hooklib.WithRestrictedDirs(frame.Dir(), hooklib.Dir()))
	require.NoError(t, err)
	require.NoError(t, advice.Register(l))
	require.NoError(t, l.InstallAll())
	t.Cleanup(l.Revert)
	return box
}

func abc(t *testing.T, rows int, index []string) *frame.DataFrame {
	t.Helper()
	data := map[string][]interface{}{}
	for _, name := range []string{"A", "B", "C"} {
		col := make([]interface{}, rows)
		for i := range col {
			col[i] = i
		}
		data[name] = col
	}
	df, err := frame.Lib.DataFrame.New(data, []string{"A", "B", "C"}, index)
	require.NoError(t, err)
	return df
}

func TestConcatDuplicateIndex(t *testing.T) {
	df1 := abc(t, 4, nil)
	df2 := abc(t, 2, nil)
	box := install(t)

	out, err := frame.Lib.Concat([]*frame.DataFrame{df1, df2})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Len())
	assert.Equal(t, 1, box.count("duplicated index values"))
	assert.Len(t, box.messages, 1)
}

func TestConcatDisjointIndex(t *testing.T) {
	df1 := abc(t, 4, nil)
	df2 := abc(t, 2, []string{"100", "200"})
	box := install(t)

	_, err := frame.Lib.Concat([]*frame.DataFrame{df1, df2}, 0)
	require.NoError(t, err)
	assert.Empty(t, box.messages)
}

func TestConcatWrongAxis(t *testing.T) {
	df1 := abc(t, 4, nil)
	df2 := abc(t, 2, []string{"100", "200"})
	box := install(t)

	_, err := frame.Lib.Concat([]*frame.DataFrame{df1, df2}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, box.count("You specified axis=1"))
	assert.Equal(t, 1, box.count("duplicated column names"))
	assert.Equal(t, 0, box.count("duplicated index values"))
}

func TestConcatSameShape(t *testing.T) {
	df1 := abc(t, 2, []string{"a", "b"})
	df2 := abc(t, 2, []string{"c", "d"})
	box := install(t)

	_, err := frame.Lib.Concat([]*frame.DataFrame{df1, df2})
	require.NoError(t, err)
	assert.Equal(t, 1, box.count("your axis is 0 which concatenates vertically"))
}

func TestConcatSingleColumn(t *testing.T) {
	df1 := abc(t, 2, nil)
	single, err := frame.Lib.DataFrame.New(map[string][]interface{}{"D": {1, 2}}, nil, nil)
	require.NoError(t, err)
	box := install(t)

	_, err = frame.Lib.Concat([]*frame.DataFrame{df1, single}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, box.count("has a single column"))
	// same row counts with axis 1 is the expected use
	assert.Len(t, box.messages, 1)
}

func TestIterRowsAndMerge(t *testing.T) {
	left, err := frame.Lib.DataFrame.New(map[string][]interface{}{"id": {1, 2}}, nil, nil)
	require.NoError(t, err)
	right, err := frame.Lib.DataFrame.New(map[string][]interface{}{"id": {3}}, nil, nil)
	require.NoError(t, err)
	box := install(t)

	merged, err := frame.Lib.Merge(left, right, "id")
	require.NoError(t, err)
	assert.Equal(t, 0, merged.Len())
	// rows walked inside Merge are library-internal
	assert.Equal(t, 0, box.count("IterRows"))
	require.Len(t, box.messages, 1)
	assert.Equal(t, "The result of Merge is empty, check the keys of the frames you combine", box.messages[0].Text())
	assert.Equal(t, hooklib.Yellow, box.messages[0].Color)

	frame.Lib.DataFrame.IterRows(left)
	assert.Equal(t, 1, box.count("IterRows is not recommended"))
}

func TestGroupByTime(t *testing.T) {
	df, err := frame.Lib.DataFrame.New(map[string][]interface{}{"Hour": {1, 2}, "k": {"a", "b"}}, nil, nil)
	require.NoError(t, err)
	box := install(t)

	_, err = frame.Lib.DataFrame.GroupBy(df, "k")
	require.NoError(t, err)
	assert.Empty(t, box.messages)

	_, err = frame.Lib.DataFrame.GroupBy(df, "k", "Hour")
	require.NoError(t, err)
	assert.Equal(t, 1, box.count("grouping by time"))
}

func TestEqualitySuggestsEquals(t *testing.T) {
	df := abc(t, 2, nil)
	box := install(t)

	_, err := frame.Lib.DataFrame.Eq(df, df)
	require.NoError(t, err)
	s, err := frame.Lib.DataFrame.Column(df, "A")
	require.NoError(t, err)
	_, err = frame.Lib.Series.Eq(s, s)
	require.NoError(t, err)
	assert.True(t, frame.Lib.DataFrame.Equals(df, df))

	assert.Equal(t, 1, box.count("DataFrame.Equals(df1, df2)"))
	assert.Equal(t, 1, box.count("Series.Equals(s1, s2)"))
	assert.Len(t, box.messages, 2)
}

func TestReadCSVUnnamedIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, frame.Lib.DataFrame.ToCSV(abc(t, 2, nil), path))
	box := install(t)

	data, err := frame.Lib.ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "Unnamed: 0", data.Columns()[0])
	require.Len(t, box.messages, 1)
	text := box.messages[0].Text()
	assert.Contains(t, text, "Your left most column is unnamed")
	assert.Contains(t, text, "data, err := frame.Lib.ReadCSV(\""+path+"\", 0)")

	_, err = frame.Lib.ReadCSV(path, 0)
	require.NoError(t, err)
	assert.Len(t, box.messages, 1)
}

func TestRepeatedColumnLookup(t *testing.T) {
	df := abc(t, 2, nil)
	box := install(t)

	for i := 0; i < 6; i++ {
		_, err := frame.Lib.DataFrame.Column(df, "B")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, box.count("You look up column B repeatedly"))
}

func TestSetup(t *testing.T) {
	cfg := configs.Default()
	cfg.Output = "off"
	cfg.Ignore = []string{"DataFrame.IterRows"}

	box := &inbox{}
	l, err := advice.Setup(cfg, hooklib.WithOutput(hooklib.Sink(box.sink)))
	require.NoError(t, err)
	defer l.Revert()

	assert.True(t, l.Installed("Concat"))
	assert.True(t, l.Installed("DataFrame.Column"))
	assert.Equal(t, hooklib.OutputCustom, l.Teller().Output())
	assert.Contains(t, l.Resolver().Dirs(), advice.Dir())
	assert.Equal(t, 11, l.NUnique())
	assert.Equal(t, 12, l.Len())

	// this file lives in a restricted directory
	df := abc(t, 2, nil)
	frame.Lib.DataFrame.IterRows(df)
	_, err = frame.Lib.Concat([]*frame.DataFrame{df, df})
	require.NoError(t, err)
	assert.Empty(t, box.messages)
	assert.Equal(t, 0, l.Memory().Len())

	l.Revert()
	assert.False(t, l.Installed("Concat"))

	cfg.Output = "loud"
	_, err = advice.Setup(cfg)
	assert.Error(t, err)
}
