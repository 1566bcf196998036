package sheetmap

import (
	"go/token"
	"reflect"
	"strings"
	"unicode"
)

// StructFieldTypes returns the exported fields of a struct type
// including the inlined fields of any anonymously embedded structs.
// The Index of every returned field is the complete index sequence
// usable with reflect.Value.FieldByIndex from the outer struct.
func StructFieldTypes(structType reflect.Type) (fields []reflect.StructField) {
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	return appendStructFields(fields, structType, nil)
}

func appendStructFields(fields []reflect.StructField, structType reflect.Type, parentIndex []int) []reflect.StructField {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		field.Index = append(append([]int(nil), parentIndex...), i)
		fieldType := field.Type
		if fieldType.Kind() == reflect.Pointer {
			fieldType = fieldType.Elem()
		}
		switch {
		case field.Anonymous && fieldType.Kind() == reflect.Struct && !isValueStruct(fieldType):
			fields = appendStructFields(fields, fieldType, field.Index)
		case token.IsExported(field.Name):
			fields = append(fields, field)
		}
	}
	return fields
}

// isValueStruct returns true for struct types
// that are mapped as single values.
func isValueStruct(t reflect.Type) bool {
	return t == typeOfTime
}

// fieldByIndex returns the field of structValue at the index sequence.
// If alloc is true, then nil pointers to embedded structs are allocated,
// else an invalid reflect.Value is returned for them.
func fieldByIndex(structValue reflect.Value, index []int, alloc bool) reflect.Value {
	v := structValue
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// SpacePascalCase inserts spaces before upper case
// characters within PascalCase like names.
// It also replaces underscore '_' characters with spaces.
// Usable for FieldNaming.Label
func SpacePascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	lastWasUpper := true
	lastWasSpace := true
	for _, r := range name {
		if r == '_' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasUpper = false
			lastWasSpace = true
			continue
		}
		isUpper := unicode.IsUpper(r)
		if isUpper && !lastWasUpper && !lastWasSpace {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		lastWasUpper = isUpper
		lastWasSpace = unicode.IsSpace(r)
	}
	return strings.TrimSpace(b.String())
}

// UseLabel returns a function that
// always returns the passed label.
func UseLabel(label string) func(fieldName string) string {
	return func(string) string { return label }
}

// ValueIsNil return true if passed reflect.Value
// is not valid or nil (of a type that can be nil).
func ValueIsNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	}
	return false
}
