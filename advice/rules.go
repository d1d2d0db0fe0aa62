package advice

import (
	"fmt"
	"html"
	"strings"

	"github.com/ListenOcean/goTableHint/frame"
	"github.com/ListenOcean/goTableHint/hooklib"
)

func iterRowsIsBad(c *hooklib.Call) error {
	c.Tell("<code>IterRows</code> is not recommended, and in the majority of cases will have better alternatives")
	return nil
}

func timeGrouping(c *hooklib.Call) error {
	by, _ := c.Args.Value("by").([]string)
	for _, name := range by {
		if isTimeColumn(name) {
			c.Tell("Seems like you are grouping by time, consider resampling the frame on a time index instead")
			return nil
		}
	}
	return nil
}

func isTimeColumn(name string) bool {
	name = strings.ToLower(name)
	for _, t := range TimeColumns {
		if name == t {
			return true
		}
	}
	return false
}

func duplicateIndexAfterConcat(res hooklib.Result, c *hooklib.Call) error {
	df, ok := res.First().(*frame.DataFrame)
	if !ok || df == nil || res.Err() != nil {
		return nil
	}
	if nunique(df.Index()) != df.Len() {
		c.Tell("After concatenation you have duplicated index values, pay attention")
	}
	if cols := df.Columns(); nunique(cols) != len(cols) {
		c.Tell("After concatenation you have duplicated column names, pay attention")
	}
	return nil
}

func nunique(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func concatArgs(c *hooklib.Call) ([]*frame.DataFrame, int) {
	objs, _ := c.Args.Value("objs").([]*frame.DataFrame)
	axis, _ := c.Args.Int("axis")
	return objs, axis
}

func concatSingleColumn(c *hooklib.Call) error {
	objs, axis := concatArgs(c)
	if axis != 1 {
		return nil
	}
	for _, df := range objs {
		if df == nil {
			continue
		}
		if _, cols := df.Shape(); cols == 1 {
			c.Tell("One of the frames you are concatenating has a single column, " +
				"consider adding it with <code>DataFrame.New</code> on the combined data instead")
			return nil
		}
	}
	return nil
}

var axisNames = map[int]string{0: "vertically", 1: "horizontally"}

func wrongConcatAxis(c *hooklib.Call) error {
	objs, axis := concatArgs(c)
	if len(objs) < 2 {
		return nil
	}
	rows := make(map[int]bool)
	cols := make(map[int]bool)
	names := make(map[string]bool)
	for _, df := range objs {
		if df == nil {
			return nil
		}
		r, n := df.Shape()
		rows[r] = true
		cols[n] = true
		for _, name := range df.Columns() {
			names[name] = true
		}
	}
	sameCols := len(cols) == 1 && cols[len(names)]
	sameRows := len(rows) == 1

	switch {
	case sameCols && !sameRows:
		if axis == 1 {
			c.Tell("All frames have the same columns, which hints for concat on axis 0. " +
				"You specified <code>axis=1</code> which may result in an unwanted behaviour")
		}
	case sameRows && !sameCols:
		if axis == 0 {
			c.Tell("All frames have the same number of rows, which hints for concat on axis 1. " +
				"You specified <code>axis=0</code> which may result in an unwanted behaviour")
		}
	case sameRows && sameCols:
		c.Tell(fmt.Sprintf("All frames have the same columns and the same number of rows. "+
			"Pay attention, your axis is %d which concatenates %s", axis, axisNames[axis]))
	}
	return nil
}

func emptyMergeResult(res hooklib.Result, c *hooklib.Call) error {
	df, ok := res.First().(*frame.DataFrame)
	if !ok || df == nil || res.Err() != nil {
		return nil
	}
	if df.Len() == 0 {
		c.Tell(fmt.Sprintf("The result of <code>%s</code> is empty, check the keys of the frames you combine",
			c.Args.Source()), hooklib.Yellow)
	}
	return nil
}

func frameCheckEquality(c *hooklib.Call) error {
	c.Tell("Calling <code>DataFrame.Eq(df1, df2)</code> compares the frames element-wise. " +
		"If you need a boolean condition, try <code>DataFrame.Equals(df1, df2)</code>")
	return nil
}

func seriesCheckEquality(c *hooklib.Call) error {
	c.Tell("Calling <code>Series.Eq(s1, s2)</code> compares the series element-wise. " +
		"If you need a boolean condition, try <code>Series.Equals(s1, s2)</code>")
	return nil
}

func csvIndex(res hooklib.Result, c *hooklib.Call) error {
	df, ok := res.First().(*frame.DataFrame)
	if !ok || df == nil || res.Err() != nil {
		return nil
	}
	if col, _ := c.Args.Int("index_col"); col >= 0 {
		return nil
	}
	columns := df.Columns()
	if len(columns) == 0 || columns[0] != "Unnamed: 0" {
		return nil
	}
	name := c.Site.Assignee()
	if name == "" {
		name = "df"
	}
	path, ok := c.Args.String("filepath")
	if ok {
		path = fmt.Sprintf("%q", path)
	} else {
		path = "file"
	}
	c.Tell("Your left most column is unnamed. This suggests it might be the index column, try: <code>" +
		html.EscapeString(fmt.Sprintf("%s, err := frame.Lib.ReadCSV(%s, 0)", name, path)) + "</code>")
	return nil
}

func largeCSV(c *hooklib.Call) error {
	df, ok := c.Args.Value("self").(*frame.DataFrame)
	if !ok || df == nil {
		return nil
	}
	rows, cols := df.Shape()
	if rows*cols <= LargeCSVCells {
		return nil
	}
	c.Tell(fmt.Sprintf("You are writing %d cells as CSV. Text formats are slow and lossy for frames this large, "+
		"consider a binary format", rows*cols), hooklib.Yellow)
	return nil
}

func repeatedColumn(c *hooklib.Call) error {
	if c.Similar != RepeatedAccess {
		return nil
	}
	key, _ := c.Args.String("key")
	c.Tell(fmt.Sprintf("You look up column <code>%s</code> repeatedly from the same line. "+
		"Fetch the series once outside the loop and reuse it", html.EscapeString(key)))
	return nil
}
