package frame

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

func readCSV(path string, indexCol ...int) (*DataFrame, error) {
	idx := -1
	if len(indexCol) > 0 {
		idx = indexCol[0]
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse csv %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("csv %s has no header", path)
	}

	header := records[0]
	if idx >= len(header) {
		return nil, errors.Errorf("index_col %d out of range for %d columns", idx, len(header))
	}
	df := &DataFrame{}
	for j, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		df.cols = append(df.cols, column{name: name})
	}
	for _, rec := range records[1:] {
		for j := range df.cols {
			var cell string
			if j < len(rec) {
				cell = rec[j]
			}
			df.cols[j].values = append(df.cols[j].values, parseCell(cell))
		}
	}

	rows := len(records) - 1
	if idx < 0 {
		df.index = rangeIndex(rows)
		return df, nil
	}
	df.index = make([]string, rows)
	for i, v := range df.cols[idx].values {
		df.index[i] = fmt.Sprint(v)
	}
	df.cols = append(df.cols[:idx], df.cols[idx+1:]...)
	return df, nil
}

func parseCell(cell string) interface{} {
	if cell == "" {
		return nil
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(cell); err == nil {
		return b
	}
	return cell
}

func toCSV(df *DataFrame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{""}, df.Columns()...)); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i, label := range df.index {
		rec := make([]string, 0, len(df.cols)+1)
		rec = append(rec, label)
		for _, c := range df.cols {
			if c.values[i] == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, fmt.Sprint(c.values[i]))
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	w.Flush()
	return w.Error()
}
