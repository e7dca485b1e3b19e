package config

import (
	"fmt"
	"strings"
)

// MissingError is the configuration error kind. It lists every problem found, not just the first.
type MissingError struct {
	Problems []string
}

func newMissingError(keys []string) *MissingError {
	e := &MissingError{}

	for _, k := range keys {
		e.Problems = append(e.Problems, fmt.Sprintf("%s environment variable is required", k))
	}

	return e
}

func (e *MissingError) Error() string {
	return "configuration errors:\n  - " + strings.Join(e.Problems, "\n  - ")
}
