package sheetmap

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError is returned when a record type, schema,
// or sheet location can't be used for mapping.
// It is always returned before any row is read or written.
type ValidationError struct {
	RecordType reflect.Type
	Location   *SheetLocation
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("sheetmap: invalid")
	if e.RecordType != nil {
		fmt.Fprintf(&b, " %s", e.RecordType)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Location != nil {
		fmt.Fprintf(&b, " at %s", e.Location)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// IOError wraps a failure of the underlying container
// like opening, serializing, or setting cell values.
type IOError struct {
	Op       string
	Location *SheetLocation
	Row      int // -1 if not row specific
	Col      int // -1 if not cell specific
	Err      error
}

func (e *IOError) Error() string {
	var b strings.Builder
	b.WriteString("sheetmap: ")
	b.WriteString(e.Op)
	if e.Location != nil {
		fmt.Fprintf(&b, " %s", e.Location)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Col >= 0 {
		fmt.Fprintf(&b, " column %d", e.Col)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *IOError) Unwrap() error { return e.Err }

func newIOError(op string, loc *SheetLocation, row, col int, err error) *IOError {
	return &IOError{Op: op, Location: loc, Row: row, Col: col, Err: err}
}

// ConversionError is returned when a cell value
// can't be coerced to the declared FieldKind.
type ConversionError struct {
	Kind   FieldKind
	Format string
	Value  any
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("cannot convert %#v to %s using format %q: %s", e.Value, e.Kind, e.Format, e.Err)
	}
	return fmt.Sprintf("cannot convert %#v to %s: %s", e.Value, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
