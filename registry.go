package sheetmap

import (
	"fmt"
	"reflect"
	"sync"
)

// SheetLocator is implemented by record types
// to declare the sheet location of their records.
// The method may have a value or pointer receiver.
type SheetLocator interface {
	SheetLocation() SheetLocation
}

// Registry extracts schemas from struct tags using a FieldNaming
// and caches them per record type.
// A Registry is safe for concurrent use.
type Registry struct {
	naming  *FieldNaming
	schemas sync.Map // reflect.Type -> *Schema[T]
}

// NewRegistry returns a Registry using the passed naming.
// A nil naming maps no fields.
func NewRegistry(naming *FieldNaming) *Registry {
	return &Registry{naming: naming}
}

// Naming returns the FieldNaming of the registry.
func (r *Registry) Naming() *FieldNaming {
	return r.naming
}

// SchemaOf returns the schema of the struct type T extracted
// from its struct tags using DefaultRegistry.
//
// Example:
//
//	type Employee struct {
//		Name     string    `col:"Name"`
//		Age      int       `col:"Age" colidx:"1"`
//		Started  date.Date `col:"Start" colfmt:"dd.MM.yyyy" colwidth:"14"`
//		Internal string    `col:"-"`
//	}
//
//	func (Employee) SheetLocation() sheetmap.SheetLocation {
//		return sheetmap.SheetNamed("Employees")
//	}
//
//	schema, err := sheetmap.SchemaOf[Employee]()
func SchemaOf[T any]() (*Schema[T], error) {
	return SchemaFrom[T](DefaultRegistry)
}

// SchemaFrom returns the schema of the struct type T
// extracted and cached by the passed registry.
// Extraction errors are returned as *ValidationError
// and are not cached.
func SchemaFrom[T any](r *Registry) (*Schema[T], error) {
	recordType := reflect.TypeFor[T]()
	if cached, ok := r.schemas.Load(recordType); ok {
		return cached.(*Schema[T]), nil
	}
	schema, err := extractSchema[T](r.naming)
	if err != nil {
		return nil, err
	}
	actual, _ := r.schemas.LoadOrStore(recordType, schema)
	return actual.(*Schema[T]), nil
}

// MustSchemaOf returns SchemaOf[T] or panics on error.
func MustSchemaOf[T any]() *Schema[T] {
	schema, err := SchemaOf[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

func extractSchema[T any](naming *FieldNaming) (*Schema[T], error) {
	recordType := reflect.TypeFor[T]()
	if recordType.Kind() != reflect.Struct {
		return nil, &ValidationError{RecordType: recordType, Reason: "record type must be a struct"}
	}

	loc, ok := declaredLocation[T]()
	if !ok {
		return nil, &ValidationError{
			RecordType: recordType,
			Reason:     "missing sheet location, the type must implement the method SheetLocation() sheetmap.SheetLocation",
		}
	}
	if err := loc.Validate(); err != nil {
		return nil, &ValidationError{RecordType: recordType, Location: &loc, Reason: err.Error()}
	}

	schema := &Schema[T]{location: &loc}
	for ordinal, structField := range StructFieldTypes(recordType) {
		col, ignore, err := naming.FieldColumn(structField)
		if err != nil {
			return nil, &ValidationError{RecordType: recordType, Field: structField.Name, Reason: err.Error()}
		}
		if ignore || !col.IsMapped() {
			continue
		}
		kind, err := fieldKindOf(structField.Type)
		if err != nil {
			return nil, &ValidationError{RecordType: recordType, Field: structField.Name, Reason: err.Error()}
		}
		schema.fields = append(schema.fields, &FieldMapping[T]{
			Column:  col,
			Field:   naming.FieldLabel(structField.Name),
			Kind:    kind,
			Ordinal: ordinal,
			get:     structFieldGetter[T](structField.Index, kind),
			set:     structFieldSetter[T](structField.Index),
		})
	}
	return schema, nil
}

func declaredLocation[T any]() (SheetLocation, bool) {
	var record T
	if locator, ok := any(record).(SheetLocator); ok {
		return locator.SheetLocation(), true
	}
	if locator, ok := any(&record).(SheetLocator); ok {
		return locator.SheetLocation(), true
	}
	return SheetLocation{}, false
}

// fieldKindOf returns the FieldKind of a supported struct field type.
// Pointers to supported types are supported as optional values.
func fieldKindOf(t reflect.Type) (FieldKind, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case typeOfTime:
		return KindTime, nil
	case typeOfDate:
		return KindDate, nil
	}
	switch t.Kind() {
	case reflect.String:
		return KindText, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return KindInt, nil
	case reflect.Int64, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return KindLong, nil
	case reflect.Uint, reflect.Uint64:
		return 0, fmt.Errorf("unsupported field type %s, values above math.MaxInt64 can't be mapped as long", t)
	case reflect.Float32, reflect.Float64:
		return KindDouble, nil
	case reflect.Bool:
		return KindBool, nil
	}
	return 0, fmt.Errorf("unsupported field type %s", t)
}

func structFieldGetter[T any](index []int, kind FieldKind) func(*T) any {
	return func(record *T) any {
		return fieldValue(fieldByIndex(reflect.ValueOf(record).Elem(), index, false), kind)
	}
}

func structFieldSetter[T any](index []int) func(*T, any) error {
	return func(record *T, value any) error {
		return assignValue(fieldByIndex(reflect.ValueOf(record).Elem(), index, true), value)
	}
}
