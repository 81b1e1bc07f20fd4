package domain

import "math"

// Table is a wide numeric table: named columns of equal length with NaN
// marking missing cells. It is the interchange shape between the pivot
// step and the correlation / model training routines.
type Table struct {
	Columns []string             `json:"columns"`
	Data    map[string][]float64 `json:"data"`
}

// NewTable creates an empty table with no columns.
func NewTable() *Table {
	return &Table{Data: make(map[string][]float64)}
}

// AddColumn appends a named column. Columns added to one table must all
// have the same length; Rows reports the length of the first column.
func (t *Table) AddColumn(name string, values []float64) {
	if _, ok := t.Data[name]; !ok {
		t.Columns = append(t.Columns, name)
	}
	t.Data[name] = values
}

// Column returns the named column, or nil when absent.
func (t *Table) Column(name string) []float64 {
	if t == nil {
		return nil
	}
	return t.Data[name]
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Data[name]
	return ok
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Data[t.Columns[0]])
}

// Empty reports whether the table has no columns or no rows.
func (t *Table) Empty() bool { return t.Rows() == 0 }

// DropMissing returns the feature matrix and target vector for the given
// columns with every row containing a NaN removed. Missing columns yield
// empty output.
func (t *Table) DropMissing(features []string, target string) (x [][]float64, y []float64) {
	if t == nil || !t.HasColumn(target) {
		return nil, nil
	}
	cols := make([][]float64, 0, len(features))
	for _, f := range features {
		c := t.Column(f)
		if c == nil {
			return nil, nil
		}
		cols = append(cols, c)
	}
	tgt := t.Column(target)
rows:
	for i := 0; i < t.Rows(); i++ {
		if math.IsNaN(tgt[i]) {
			continue
		}
		row := make([]float64, len(cols))
		for j, c := range cols {
			if math.IsNaN(c[i]) {
				continue rows
			}
			row[j] = c[i]
		}
		x = append(x, row)
		y = append(y, tgt[i])
	}
	return x, y
}
