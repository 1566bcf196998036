package sheetmap

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldNaming defines how struct fields
// are mapped to columns by struct tags.
//
// nil is a valid value for *FieldNaming
// and is equal to the zero value
// which maps no fields because no tags are configured.
type FieldNaming struct {
	// NameTag is the struct field tag holding the header label.
	NameTag string
	// IndexTag is the struct field tag holding the zero based column index.
	IndexTag string
	// FormatTag is the struct field tag holding the value format pattern.
	FormatTag string
	// WidthTag is the struct field tag holding the column width.
	WidthTag string
	// StyleTag is the struct field tag holding style tag names
	// separated by '|' like "bold|wrap".
	StyleTag string
	// Ignore is the NameTag value that excludes a field from mapping.
	Ignore string
	// Label will be called with the struct field name to return
	// the label used for errors and as fallback header label.
	// If Label is nil, then the struct field name will be used.
	Label func(fieldName string) string
}

// String implements the fmt.Stringer interface for FieldNaming.
func (n *FieldNaming) String() string {
	if n == nil {
		return `FieldNaming{NameTag: "", IndexTag: "", Ignore: ""}`
	}
	return fmt.Sprintf("FieldNaming{NameTag: %#v, IndexTag: %#v, Ignore: %#v}", n.NameTag, n.IndexTag, n.Ignore)
}

// FieldLabel returns the label of a struct field name.
func (n *FieldNaming) FieldLabel(fieldName string) string {
	if n == nil || n.Label == nil {
		return fieldName
	}
	return n.Label(fieldName)
}

// FieldColumn returns the Column declared by the tags of a struct field.
// ignore is true if the field is tagged with the Ignore name.
// A field without name or index tag returns an unmapped Column.
func (n *FieldNaming) FieldColumn(structField reflect.StructField) (col Column, ignore bool, err error) {
	col.Index = NoIndex
	if n == nil {
		return col, false, nil
	}
	if name, ok := n.lookup(structField, n.NameTag); ok {
		if i := strings.IndexByte(name, ','); i != -1 {
			name = name[:i]
		}
		if n.Ignore != "" && name == n.Ignore {
			return col, true, nil
		}
		col.Name = name
	}
	if idx, ok := n.lookup(structField, n.IndexTag); ok && idx != "" {
		col.Index, err = strconv.Atoi(idx)
		if err != nil {
			return col, false, fmt.Errorf("invalid %s tag %q: %w", n.IndexTag, idx, err)
		}
		if col.Index < 0 {
			col.Index = NoIndex
		}
	}
	if format, ok := n.lookup(structField, n.FormatTag); ok {
		col.ValueFormat = format
	}
	if width, ok := n.lookup(structField, n.WidthTag); ok && width != "" {
		col.Width, err = strconv.ParseFloat(width, 64)
		if err != nil {
			return col, false, fmt.Errorf("invalid %s tag %q: %w", n.WidthTag, width, err)
		}
	}
	if style, ok := n.lookup(structField, n.StyleTag); ok {
		col.Style, err = ParseStyle(style)
		if err != nil {
			return col, false, fmt.Errorf("invalid %s tag: %w", n.StyleTag, err)
		}
	}
	return col, false, nil
}

func (n *FieldNaming) lookup(structField reflect.StructField, tag string) (string, bool) {
	if tag == "" {
		return "", false
	}
	value, ok := structField.Tag.Lookup(tag)
	return strings.TrimSpace(value), ok
}
