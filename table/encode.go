package table

import (
	"fmt"
	"math"
	"sort"
)

// ColumnKind is the encoded representation of a column.
type ColumnKind uint8

const (
	KindNumeric ColumnKind = iota
	KindCategorical
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ColumnSchema describes how one column was encoded.
type ColumnSchema struct {
	Name string
	Kind ColumnKind
	// Categories maps code i to Categories[i] for categorical columns.
	Categories []string
}

// Encoded is the numeric form of a Table.
type Encoded struct {
	Rows   int
	Cols   int
	Schema []ColumnSchema
	// Values is row-major; NaN marks a missing cell.
	Values []float64

	// source holds the original cells, row-major, so Decode can return
	// observed cells unchanged.
	source []Cell
}

// Labels returns the ordered column labels.
func (e *Encoded) Labels() []string {
	labels := make([]string, len(e.Schema))
	for i, s := range e.Schema {
		labels[i] = s.Name
	}
	return labels
}

// Encode converts t into its numeric form. t is not modified.
func Encode(t *Table) (*Encoded, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	rows, cols := t.NumRows(), t.NumCols()
	enc := &Encoded{
		Rows:   rows,
		Cols:   cols,
		Schema: make([]ColumnSchema, cols),
		Values: make([]float64, rows*cols),
		source: make([]Cell, rows*cols),
	}

	for c, col := range t.Columns {
		schema := inferSchema(col)
		enc.Schema[c] = schema

		var codes map[string]int
		if schema.Kind == KindCategorical {
			codes = make(map[string]int, len(schema.Categories))
			for i, cat := range schema.Categories {
				codes[cat] = i
			}
		}

		for r, cell := range col.Cells {
			idx := r*cols + c
			enc.source[idx] = cell
			if !cell.resolvable() {
				enc.Values[idx] = math.NaN()
				continue
			}
			if schema.Kind == KindCategorical {
				enc.Values[idx] = float64(codes[cell.String()])
				continue
			}
			enc.Values[idx], _ = cell.Float()
		}
	}

	return enc, nil
}

func inferSchema(col Column) ColumnSchema {
	schema := ColumnSchema{Name: col.Name, Kind: KindNumeric}

	seen := make(map[string]struct{})
	for _, cell := range col.Cells {
		if !cell.resolvable() {
			continue
		}
		if cell.Kind() == CellCategory {
			schema.Kind = KindCategorical
		}
		seen[cell.String()] = struct{}{}
	}

	if schema.Kind == KindCategorical {
		schema.Categories = make([]string, 0, len(seen))
		for cat := range seen {
			schema.Categories = append(schema.Categories, cat)
		}
		sort.Strings(schema.Categories)
	}

	return schema
}

// Decode rebuilds a Table from values laid out like enc.Values.
//
// Cells that were observed when enc was built are returned as they were, so a
// number in a mixed column stays a number. Other categorical values are
// rounded to the nearest code and clamped into range. NaN values decode as
// missing cells.
func Decode(enc *Encoded, values []float64) (*Table, error) {
	if enc == nil {
		return nil, encodingError("", ErrNilTable)
	}
	if len(values) != enc.Rows*enc.Cols || len(enc.Schema) != enc.Cols {
		return nil, encodingError("", fmt.Errorf("%w: %d values for %dx%d", ErrShapeMismatch, len(values), enc.Rows, enc.Cols))
	}

	t := &Table{Columns: make([]Column, enc.Cols)}
	for c, schema := range enc.Schema {
		cells := make([]Cell, enc.Rows)
		for r := range cells {
			idx := r*enc.Cols + c
			if len(enc.source) == len(values) && enc.source[idx].resolvable() {
				cells[r] = enc.source[idx]
				continue
			}
			v := values[idx]
			if math.IsNaN(v) {
				continue
			}
			if schema.Kind == KindCategorical {
				cells[r] = Category(schema.Categories[nearestCode(v, len(schema.Categories))])
				continue
			}
			cells[r] = Number(v)
		}
		t.Columns[c] = Column{Name: schema.Name, Cells: cells}
	}

	return t, nil
}

func nearestCode(v float64, n int) int {
	switch {
	case v <= 0:
		return 0
	case v >= float64(n-1):
		return n - 1
	default:
		return int(math.Round(v))
	}
}
