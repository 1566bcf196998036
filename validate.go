package sheetmap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CallValidateMethod calls the `Validate() error` or `Valid() bool`
// method on v.Interface() if available and v is not nil.
func CallValidateMethod(v reflect.Value) error {
	if ValueIsNil(v) {
		return nil
	}
	switch x := v.Interface().(type) {
	case interface{ Validate() error }:
		return x.Validate()
	case interface{ Valid() bool }:
		if !x.Valid() {
			return fmt.Errorf("value %[1]#v of type %[1]T is not valid", v.Interface())
		}
	}
	return nil
}

// validateRecord runs the struct validation of validate if not nil
// and then the Validate or Valid method of the record if implemented.
func validateRecord[T any](validate *validator.Validate, record *T) error {
	if validate != nil && reflect.TypeFor[T]().Kind() == reflect.Struct {
		if err := validate.Struct(record); err != nil {
			return validationErrorsMessage(err)
		}
	}
	return CallValidateMethod(reflect.ValueOf(record))
}

func validationErrorsMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s failed %s=%s with value %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		} else {
			msgs[i] = fmt.Sprintf("%s failed %s with value %v", fe.Field(), fe.Tag(), fe.Value())
		}
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, ", "), err)
}
