package models

import (
	"fmt"
	"strings"
)

// SchemaError reports required logical fields that could not be resolved
// against an input's actual columns. It is a hard failure for that file:
// guessing around a missing column would silently corrupt the join.
type SchemaError struct {
	Input   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Input, strings.Join(e.Missing, ", "))
}
