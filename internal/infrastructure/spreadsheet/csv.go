package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV parses a CSV upload. A UTF-8 BOM is detected and stripped, and
// non-UTF-8 content is rejected.
func ParseCSV(data []byte) (*Sheet, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: failed to parse csv: %w", err)
	}
	return buildSheet(records)
}

// WriteCSV writes records as CSV prefixed with a UTF-8 BOM so desktop
// spreadsheet applications detect the encoding.
func WriteCSV(w io.Writer, records [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("spreadsheet: failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("spreadsheet: failed to write csv: %w", err)
	}
	return nil
}
