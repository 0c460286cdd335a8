package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMissingMarkers are the field values read as missing cells.
var DefaultMissingMarkers = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "?"}

type csvOptions struct {
	delimiter     rune
	missing       map[string]struct{}
	missingOutput string
}

func defaultCSVOptions() csvOptions {
	o := csvOptions{delimiter: ','}
	o.missing = markerSet(DefaultMissingMarkers)
	return o
}

func markerSet(markers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	return set
}

// CSVOption configures CSV reading and writing.
type CSVOption func(*csvOptions)

// WithDelimiter sets the field delimiter. Default: ','.
func WithDelimiter(r rune) CSVOption {
	return func(o *csvOptions) {
		if r != 0 {
			o.delimiter = r
		}
	}
}

// WithMissingMarkers replaces the set of field values read as missing.
func WithMissingMarkers(markers ...string) CSVOption {
	return func(o *csvOptions) {
		o.missing = markerSet(markers)
	}
}

// WithMissingOutput sets the field written for missing cells. Default: "".
func WithMissingOutput(s string) CSVOption {
	return func(o *csvOptions) {
		o.missingOutput = s
	}
}

// ReadCSV reads a table whose first record is the header.
// Fields that parse as floats become numbers, missing markers become missing
// cells and everything else becomes a category.
func ReadCSV(r io.Reader, optFns ...CSVOption) (*Table, error) {
	opts := defaultCSVOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		t.Columns[i] = Column{Name: strings.TrimSpace(name)}
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}
		for i, field := range record {
			t.Columns[i].Cells = append(t.Columns[i].Cells, parseField(field, opts.missing))
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseField(field string, missing map[string]struct{}) Cell {
	f := strings.TrimSpace(field)
	if _, ok := missing[f]; ok {
		return Missing()
	}
	if v, err := strconv.ParseFloat(f, 64); err == nil {
		return Number(v)
	}
	return Category(f)
}

// WriteCSV writes t with a header record.
func WriteCSV(w io.Writer, t *Table, optFns ...CSVOption) error {
	if err := t.Validate(); err != nil {
		return err
	}

	opts := defaultCSVOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter

	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c := range record {
			cell := t.Cell(r, c)
			if cell.IsMissing() {
				record[c] = opts.missingOutput
				continue
			}
			record[c] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", r+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a CSV table from data, decompressing by the extension of name.
func DecodeCSV(data []byte, name string, optFns ...CSVOption) (*Table, error) {
	rc, err := NewReader(bytes.NewReader(data), CompressionFromPath(name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return ReadCSV(rc, optFns...)
}

// EncodeCSV writes t as CSV, compressing by the extension of name.
func EncodeCSV(t *Table, name string, optFns ...CSVOption) ([]byte, error) {
	var buf bytes.Buffer

	wc, err := NewWriter(&buf, CompressionFromPath(name))
	if err != nil {
		return nil, err
	}
	if err := WriteCSV(wc, t, optFns...); err != nil {
		_ = wc.Close()
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
