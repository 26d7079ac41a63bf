package spreadsheet

import (
	"path/filepath"
	"strings"
)

// Row is one parsed data row keyed by header name.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name.
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or defaultVal if empty.
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// IsEmpty returns true if the row has no non-empty values.
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is a fully parsed spreadsheet: the header row plus all non-empty
// data rows.
type Sheet struct {
	Headers []string
	Rows    []*Row
}

// HasHeader checks whether a header exists, matching case-insensitively.
func (s *Sheet) HasHeader(name string) bool {
	for _, h := range s.Headers {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// Parse reads a CSV or XLSX upload depending on the file extension.
func Parse(data []byte, filename string) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(data)
	case ".xlsx":
		return ParseXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func buildSheet(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	sheet := &Sheet{Headers: headers}
	for i, record := range records[1:] {
		row := &Row{
			LineNumber: i + 2,
			Data:       make(map[string]string, len(headers)),
		}
		for j, header := range headers {
			if j < len(record) {
				row.Data[header] = strings.TrimSpace(record[j])
			} else {
				row.Data[header] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
