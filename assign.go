package sheetmap

import (
	"errors"
	"fmt"
	"reflect"
)

// assignValue assigns a value of the Go type ToField returns
// to the struct field dst.
//
// Assignment strategies in order:
//
//  1. A nil value sets dst to its zero value.
//  2. A pointer dst is allocated if nil and the value
//     is assigned to the dereferenced pointer.
//  3. Integers are assigned to any integer or float kind
//     with overflow check, negative values fail for unsigned kinds.
//  4. Floats are assigned to float kinds with overflow check.
//  5. Values are converted to named types of the same reflect.Kind,
//     like string to a named string type.
//
// Returns errors.ErrUnsupported wrapped with the types
// if no strategy could handle the type combination.
func assignValue(dst reflect.Value, value any) error {
	if !dst.IsValid() {
		return fmt.Errorf("dst value is invalid")
	}
	if !dst.CanSet() {
		return fmt.Errorf("cannot set dst value")
	}
	if value == nil {
		dst.SetZero()
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assignValue(dst.Elem(), value)
	}

	switch v := value.(type) {
	case int:
		return assignInt(dst, int64(v))
	case int64:
		return assignInt(dst, v)
	case float64:
		switch dst.Kind() {
		case reflect.Float32, reflect.Float64:
			if dst.OverflowFloat(v) {
				return fmt.Errorf("value %v overflows %s", v, dst.Type())
			}
			dst.SetFloat(v)
			return nil
		}
	}

	src := reflect.ValueOf(value)
	if src.Kind() == dst.Kind() && src.Type().ConvertibleTo(dst.Type()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("can't assign %T to %s: %w", value, dst.Type(), errors.ErrUnsupported)
}

func assignInt(dst reflect.Value, i int64) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if dst.OverflowInt(i) {
			return fmt.Errorf("value %d overflows %s", i, dst.Type())
		}
		dst.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i < 0 || dst.OverflowUint(uint64(i)) {
			return fmt.Errorf("value %d overflows %s", i, dst.Type())
		}
		dst.SetUint(uint64(i))
		return nil

	case reflect.Float32, reflect.Float64:
		dst.SetFloat(float64(i))
		return nil
	}
	return fmt.Errorf("can't assign integer to %s: %w", dst.Type(), errors.ErrUnsupported)
}

// fieldValue returns the value of the struct field v
// converted to the Go type of kind for ToCell,
// or nil for nil pointers.
func fieldValue(v reflect.Value, kind FieldKind) any {
	if ValueIsNil(v) {
		return nil
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	switch kind {
	case KindText:
		return v.String()
	case KindInt, KindLong:
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return int64(v.Uint())
		}
		return v.Int()
	case KindDouble:
		return v.Float()
	case KindBool:
		return v.Bool()
	}
	return v.Interface()
}
