// backend/src/services/errors.go
package services

import "errors"

var (
	ErrParsingFailed    = errors.New("parsing failed")
	ErrProcessingFailed = errors.New("processing failed")
	ErrRunNotFound      = errors.New("reconciliation run not found")
)
