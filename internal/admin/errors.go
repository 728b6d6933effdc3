package admin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthenticated is returned when an operation is called without a live session.
var ErrUnauthenticated = errors.New("Not authenticated")

// ErrNotFound is returned when the targeted job, application or profile does not exist.
var ErrNotFound = errors.New("Record not found")

// ValidationError carries a message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

// PersistenceError is a failed store operation. Op names the operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
