package sheetmap

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type validMethod bool

func (v validMethod) Valid() bool { return bool(v) }

type validateMethod struct{ err error }

func (v *validateMethod) Validate() error { return v.err }

type taggedRecord struct {
	Name string `validate:"required"`
	Qty  int    `validate:"gte=1"`
}

func TestCallValidateMethod(t *testing.T) {
	errInvalid := errors.New("invalid")
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "nil pointer", value: (*validateMethod)(nil)},
		{name: "no method", value: "x"},
		{name: "valid", value: validMethod(true)},
		{name: "not valid", value: validMethod(false), wantErr: true},
		{name: "validate ok", value: &validateMethod{}},
		{name: "validate error", value: &validateMethod{err: errInvalid}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CallValidateMethod(reflect.ValueOf(tt.value))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateRecord(t *testing.T) {
	validate := validator.New()

	require.NoError(t, validateRecord(validate, &taggedRecord{Name: "a", Qty: 1}))
	require.NoError(t, validateRecord(nil, &taggedRecord{}), "validator is opt-in")

	err := validateRecord(validate, &taggedRecord{Qty: 0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Name failed required")
	require.Contains(t, err.Error(), "Qty failed gte=1")
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)

	require.NoError(t, validateRecord[string](validate, new(string)), "non struct types skip the validator")
}
