package table

import (
	"math"
	"strconv"
)

// CellKind identifies what a Cell holds.
type CellKind uint8

const (
	CellMissing CellKind = iota
	CellNumber
	CellCategory
)

// Cell is a single table entry. The zero value is a missing cell.
type Cell struct {
	kind CellKind
	num  float64
	str  string
}

// Missing returns a missing cell.
func Missing() Cell { return Cell{} }

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{kind: CellNumber, num: v} }

// Category returns a categorical cell.
func Category(s string) Cell { return Cell{kind: CellCategory, str: s} }

// Kind returns the cell kind.
func (c Cell) Kind() CellKind { return c.kind }

// IsMissing reports whether the cell has no observed value.
func (c Cell) IsMissing() bool { return c.kind == CellMissing }

// Float returns the numeric value and true for numeric cells.
func (c Cell) Float() (float64, bool) {
	if c.kind != CellNumber {
		return 0, false
	}
	return c.num, true
}

// String formats the cell; missing cells format as "".
func (c Cell) String() string {
	switch c.kind {
	case CellNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case CellCategory:
		return c.str
	default:
		return ""
	}
}

// resolvable reports whether the cell carries a usable observation.
func (c Cell) resolvable() bool {
	switch c.kind {
	case CellNumber:
		return !math.IsNaN(c.num) && !math.IsInf(c.num, 0)
	case CellCategory:
		return true
	default:
		return false
	}
}

// Column is a named sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an ordered sequence of equally long named columns.
type Table struct {
	Columns []Column
}

// New creates a Table and validates its structure.
func New(columns ...Column) (*Table, error) {
	t := &Table{Columns: columns}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that column names are unique and non-empty and that all
// columns have the same length.
func (t *Table) Validate() error {
	if t == nil {
		return encodingError("", ErrNilTable)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for i, col := range t.Columns {
		if col.Name == "" {
			return encodingError("", ErrEmptyColumnName)
		}
		if _, ok := seen[col.Name]; ok {
			return encodingError(col.Name, ErrDuplicateColumn)
		}
		seen[col.Name] = struct{}{}
		if i > 0 && len(col.Cells) != len(t.Columns[0].Cells) {
			return encodingError(col.Name, ErrRaggedColumns)
		}
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// Names returns the ordered column labels.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Cell returns the cell at row r of column c.
func (t *Table) Cell(r, c int) Cell {
	return t.Columns[c].Cells[r]
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// MissingCount returns the number of missing cells.
func (t *Table) MissingCount() int {
	n := 0
	for _, col := range t.Columns {
		for _, cell := range col.Cells {
			if !cell.resolvable() {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		out.Columns[i] = Column{Name: col.Name, Cells: cells}
	}
	return out
}
