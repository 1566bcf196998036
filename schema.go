package sheetmap

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/domonda/go-types/date"
)

// NoIndex is the Column.Index of columns
// that are only declared by name.
const NoIndex = -1

// Column declares the column of a field.
// A column is mapped when it has a non blank Name
// or an Index >= 0.
type Column struct {
	// Name is the header label of the column.
	Name string
	// Index is the zero based column index or NoIndex.
	Index int
	// Width is the display width of the column,
	// zero or negative means the column is auto sized.
	Width float64
	// ValueFormat is a pattern like "yyyy-MM-dd" or "0.00"
	// used to format and parse cell values.
	ValueFormat string
	// Style holds style tags applied to written cells.
	Style Style
}

// Named returns a Column declared by header label.
func Named(name string) Column {
	return Column{Name: name, Index: NoIndex}
}

// At returns a Column declared by zero based column index.
func At(index int) Column {
	return Column{Index: index}
}

func (c Column) WithName(name string) Column {
	c.Name = name
	return c
}

func (c Column) WithFormat(valueFormat string) Column {
	c.ValueFormat = valueFormat
	return c
}

func (c Column) WithWidth(width float64) Column {
	c.Width = width
	return c
}

func (c Column) WithStyle(style Style) Column {
	c.Style = style
	return c
}

// HasName returns true if the column has a non blank name.
func (c Column) HasName() bool {
	return strings.TrimSpace(c.Name) != ""
}

// IsMapped returns true if the column has a name or an index.
func (c Column) IsMapped() bool {
	return c.HasName() || c.Index >= 0
}

// FieldMapping binds one field of the record type T to a Column.
// FieldMapping values are created by a SchemaBuilder
// or by struct tag extraction and are immutable.
type FieldMapping[T any] struct {
	Column

	// Field is a human readable label of the field
	// used for error messages and as fallback header label.
	Field string
	// Kind is the semantic type of the field.
	Kind FieldKind
	// Ordinal is the position of the field in declaration order
	// including fields that are not mapped.
	Ordinal int

	get func(*T) any
	set func(*T, any) error
}

// Get returns the value of the field of record
// or nil if the value is absent like a nil pointer.
func (f *FieldMapping[T]) Get(record *T) any {
	return f.get(record)
}

// Set assigns a value as returned by ToField
// for the Kind of the mapping to the field of record.
func (f *FieldMapping[T]) Set(record *T, value any) error {
	return f.set(record, value)
}

// EffectiveIndex returns the column index the field is written to,
// the declared Index or else the Ordinal.
func (f *FieldMapping[T]) EffectiveIndex() int {
	if f.Index >= 0 {
		return f.Index
	}
	return f.Ordinal
}

// HeaderName returns the header label the field is written with,
// the declared Name or else the Field label.
func (f *FieldMapping[T]) HeaderName() string {
	if f.HasName() {
		return f.Name
	}
	return f.Field
}

func (f *FieldMapping[T]) String() string {
	return fmt.Sprintf("%s(%s, name=%q, index=%d)", f.Field, f.Kind, f.Name, f.Index)
}

// Schema is the ordered set of field mappings of the record type T
// and the optional sheet location declared for it.
// A Schema is immutable and safe for concurrent use.
type Schema[T any] struct {
	fields   []*FieldMapping[T]
	location *SheetLocation
}

// Fields returns the field mappings in declaration order.
func (s *Schema[T]) Fields() []*FieldMapping[T] {
	return slices.Clone(s.fields)
}

// Len returns the number of mapped fields.
func (s *Schema[T]) Len() int {
	return len(s.fields)
}

// Location returns the sheet location declared for the record type.
func (s *Schema[T]) Location() (loc SheetLocation, ok bool) {
	if s.location == nil {
		return SheetLocation{}, false
	}
	return *s.location, true
}

// RecordType returns the reflect.Type of T.
func (s *Schema[T]) RecordType() reflect.Type {
	return reflect.TypeFor[T]()
}

// SchemaBuilder declares a Schema with explicit field accessors.
// Every accessor returns a pointer to the field within the passed record.
//
// Example:
//
//	schema, err := sheetmap.NewSchema[Person]().
//		Sheet(sheetmap.SheetNamed("People")).
//		Text(sheetmap.Named("Name"), func(p *Person) *string { return &p.Name }).
//		Int(sheetmap.Named("Age"), func(p *Person) *int { return &p.Age }).
//		Date(sheetmap.At(2).WithFormat("dd.MM.yyyy"), func(p *Person) *date.Date { return &p.Birthday }).
//		Build()
type SchemaBuilder[T any] struct {
	fields   []*FieldMapping[T]
	ordinal  int
	location *SheetLocation
	err      error
}

// NewSchema returns a SchemaBuilder for the record type T.
func NewSchema[T any]() *SchemaBuilder[T] {
	return &SchemaBuilder[T]{}
}

// Sheet declares the sheet location of the records.
func (b *SchemaBuilder[T]) Sheet(loc SheetLocation) *SchemaBuilder[T] {
	b.location = &loc
	return b
}

func (b *SchemaBuilder[T]) Text(col Column, field func(*T) *string) *SchemaBuilder[T] {
	return addField(b, col, KindText, field)
}

func (b *SchemaBuilder[T]) Int(col Column, field func(*T) *int) *SchemaBuilder[T] {
	return addField(b, col, KindInt, field)
}

func (b *SchemaBuilder[T]) Int64(col Column, field func(*T) *int64) *SchemaBuilder[T] {
	return addField(b, col, KindLong, field)
}

func (b *SchemaBuilder[T]) Float64(col Column, field func(*T) *float64) *SchemaBuilder[T] {
	return addField(b, col, KindDouble, field)
}

func (b *SchemaBuilder[T]) Bool(col Column, field func(*T) *bool) *SchemaBuilder[T] {
	return addField(b, col, KindBool, field)
}

func (b *SchemaBuilder[T]) Time(col Column, field func(*T) *time.Time) *SchemaBuilder[T] {
	return addField(b, col, KindTime, field)
}

func (b *SchemaBuilder[T]) Date(col Column, field func(*T) *date.Date) *SchemaBuilder[T] {
	return addField(b, col, KindDate, field)
}

// Custom adds a field with an explicit accessor pair.
// get returns the field value or nil if absent,
// set receives values of the Go type ToField returns for kind.
func (b *SchemaBuilder[T]) Custom(col Column, label string, kind FieldKind, get func(*T) any, set func(*T, any) error) *SchemaBuilder[T] {
	if get == nil || set == nil {
		b.fail(label, "custom field needs get and set functions")
		return b
	}
	b.add(col, label, kind, get, set)
	return b
}

// Build returns the immutable Schema
// or a *ValidationError for an invalid declaration.
func (b *SchemaBuilder[T]) Build() (*Schema[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.location != nil {
		if err := b.location.Validate(); err != nil {
			return nil, &ValidationError{
				RecordType: reflect.TypeFor[T](),
				Location:   b.location,
				Reason:     err.Error(),
			}
		}
	}
	return &Schema[T]{
		fields:   slices.Clone(b.fields),
		location: b.location,
	}, nil
}

func (b *SchemaBuilder[T]) add(col Column, label string, kind FieldKind, get func(*T) any, set func(*T, any) error) {
	ordinal := b.ordinal
	b.ordinal++
	if !col.IsMapped() {
		return
	}
	if label == "" {
		label = builderFieldLabel(col)
	}
	b.fields = append(b.fields, &FieldMapping[T]{
		Column:  col,
		Field:   label,
		Kind:    kind,
		Ordinal: ordinal,
		get:     get,
		set:     set,
	})
}

func (b *SchemaBuilder[T]) fail(field, reason string) {
	if b.err == nil {
		b.err = &ValidationError{RecordType: reflect.TypeFor[T](), Field: field, Reason: reason}
	}
}

func addField[T, V any](b *SchemaBuilder[T], col Column, kind FieldKind, field func(*T) *V) *SchemaBuilder[T] {
	if field == nil {
		b.fail(builderFieldLabel(col), "nil field accessor")
		return b
	}
	get := func(record *T) any {
		return *field(record)
	}
	set := func(record *T, value any) error {
		v, ok := value.(V)
		if !ok {
			return fmt.Errorf("can't assign %T to field of type %s", value, reflect.TypeFor[V]())
		}
		*field(record) = v
		return nil
	}
	b.add(col, "", kind, get, set)
	return b
}

func builderFieldLabel(col Column) string {
	if col.HasName() {
		return col.Name
	}
	if col.Index >= 0 {
		return ColumnLetter(col.Index)
	}
	return "unmapped"
}

// ColumnLetter returns the spreadsheet letter name
// of a zero based column index: 0 is "A", 25 is "Z", 26 is "AA".
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}
