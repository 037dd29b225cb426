package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadFile loads a delimited text file into a table of text columns. The
// first record is the header. Files that are not valid UTF-8 are decoded as
// ISO 8859-1, which maps every byte, so decoding never fails on encoding
// grounds.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}

	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("ReadFile: decoding %s as ISO 8859-1: %w", path, err)
		}
	}

	t, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ReadFile: parsing %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV from r into a table. Every column is text; blank fields
// load as nulls.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("Read: input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("Read: header: %w", err)
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Kind: KindText}
	}
	t := New(cols)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Read: line %d: %w", line, err)
		}

		cells := make([]Value, len(record))
		for i, field := range record {
			if field == "" {
				cells[i] = Null()
			} else {
				cells[i] = String(field)
			}
		}
		if err := t.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("Read: line %d: %w", line, err)
		}
	}
	return t, nil
}

// WriteFile writes the table as CSV to the given path, replacing any
// existing file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	defer f.Close()

	if err := t.Write(f); err != nil {
		return fmt.Errorf("WriteFile: %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("WriteFile: closing %s: %w", path, err)
	}
	return nil
}

// Write writes the table as CSV: a header record followed by one record per
// row. Nulls become empty fields.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("Write: header: %w", err)
	}

	record := make([]string, len(t.cols))
	for r, row := range t.rows {
		for i, v := range row {
			record[i] = formatCell(v, t.cols[i].Kind)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("Write: row %d: %w", r+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("Write: flush: %w", err)
	}
	return nil
}

// formatCell renders one cell for export.
func formatCell(v Value, kind Kind) string {
	switch {
	case v.IsNull:
		return ""
	case kind == KindInteger && v.Num == math.Trunc(v.Num):
		return strconv.FormatInt(int64(v.Num), 10)
	case kind.IsNumeric():
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.Str
	}
}
