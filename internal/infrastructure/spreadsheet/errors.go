package spreadsheet

import "errors"

var (
	// ErrEmptyFile is returned when the uploaded file has no content
	ErrEmptyFile = errors.New("spreadsheet: file is empty")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8
	ErrInvalidEncoding = errors.New("spreadsheet: invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("spreadsheet: missing header row")

	// ErrUnsupportedFormat is returned for file extensions other than
	// .csv and .xlsx
	ErrUnsupportedFormat = errors.New("spreadsheet: unsupported file format")
)
