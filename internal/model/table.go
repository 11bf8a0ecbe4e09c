package model

import "fmt"

// Column is a named, ordered sequence of values
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Table is an ordered set of uniquely named columns of equal length.
// A Table is treated as immutable once built.
type Table struct {
	Columns []Column `json:"columns"`
	index   map[string]int
}

// NewTable builds a table from columns, checking name uniqueness and row count.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{Columns: columns}
	t.index = make(map[string]int, len(columns))
	rows := -1
	for i, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		t.index[c.Name] = i
		if rows >= 0 && len(c.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Values), rows)
		}
		rows = len(c.Values)
	}
	return t, nil
}

// MustTable is NewTable for literals in tests and fixtures
func MustTable(columns ...Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns column names in source order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NameSet returns column names as a set
func (t *Table) NameSet() map[string]bool {
	set := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		set[c.Name] = true
	}
	return set
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Column returns the named column. Tables built without NewTable have no
// index and are scanned, so concurrent reads never write.
func (t *Table) Column(name string) (Column, bool) {
	if t.index == nil {
		for _, c := range t.Columns {
			if c.Name == name {
				return c, true
			}
		}
		return Column{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// WithColumn returns a copy of t whose column of the same name is replaced by c.
// The receiver is left untouched; unchanged columns are shared.
func (t *Table) WithColumn(c Column) *Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	for i := range cols {
		if cols[i].Name == c.Name {
			cols[i] = c
		}
	}
	out := &Table{Columns: cols}
	out.reindex()
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c.Name] = i
	}
}
