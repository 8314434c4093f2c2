package reports

import "errors"

var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("report generation unavailable")
	ErrExtractFailed = errors.New("document text unavailable")
	ErrGenerate      = errors.New("report generation failed")
)
