package sheetmap

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/domonda/go-types/date"
	"github.com/stretchr/testify/require"
)

func assignableValue[T any]() reflect.Value {
	return reflect.New(reflect.TypeFor[T]()).Elem()
}

func pointerTo[T any](v T) *T {
	return &v
}

type namedString string

func TestAssignValue(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		dst     reflect.Value
		value   any
		wantErr bool
		wantDst any
	}{
		{name: "int to int", dst: assignableValue[int](), value: 1, wantDst: 1},
		{name: "int to int8", dst: assignableValue[int8](), value: 127, wantDst: int8(127)},
		{name: "int64 to int64", dst: assignableValue[int64](), value: int64(1 << 40), wantDst: int64(1 << 40)},
		{name: "int to uint16", dst: assignableValue[uint16](), value: 65535, wantDst: uint16(65535)},
		{name: "int to float64", dst: assignableValue[float64](), value: 3, wantDst: float64(3)},
		{name: "float64 to float32", dst: assignableValue[float32](), value: 0.5, wantDst: float32(0.5)},
		{name: "string to string", dst: assignableValue[string](), value: "S", wantDst: "S"},
		{name: "string to named string", dst: assignableValue[namedString](), value: "S", wantDst: namedString("S")},
		{name: "bool to bool", dst: assignableValue[bool](), value: true, wantDst: true},
		{name: "time to time", dst: assignableValue[time.Time](), value: now, wantDst: now},
		{name: "date to date", dst: assignableValue[date.Date](), value: date.Date("2024-03-05"), wantDst: date.Date("2024-03-05")},
		{name: "int to *int", dst: assignableValue[*int](), value: 1, wantDst: pointerTo(1)},
		{name: "nil to *int", dst: assignableValue[*int](), value: nil, wantDst: (*int)(nil)},

		// Error cases
		{name: "int overflows int8", dst: assignableValue[int8](), value: 128, wantErr: true},
		{name: "negative int to uint", dst: assignableValue[uint](), value: -1, wantErr: true},
		{name: "int to string", dst: assignableValue[string](), value: 65, wantErr: true},
		{name: "string to int", dst: assignableValue[int](), value: "1", wantErr: true},
		{name: "invalid dst", dst: reflect.Value{}, value: 1, wantErr: true},
		{name: "unsettable dst", dst: reflect.ValueOf(1), value: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assignValue(tt.dst, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantDst, tt.dst.Interface())
		})
	}
}

func TestAssignValue_Unsupported(t *testing.T) {
	err := assignValue(assignableValue[[]int](), "x")
	require.True(t, errors.Is(err, errors.ErrUnsupported), "errors.ErrUnsupported")
}

func TestFieldValue(t *testing.T) {
	require.Equal(t, nil, fieldValue(reflect.ValueOf((*int)(nil)), KindInt))
	require.Equal(t, int64(7), fieldValue(reflect.ValueOf(pointerTo(int8(7))), KindInt))
	require.Equal(t, int64(7), fieldValue(reflect.ValueOf(uint32(7)), KindLong))
	require.Equal(t, "S", fieldValue(reflect.ValueOf(namedString("S")), KindText))
	require.Equal(t, float64(0.5), fieldValue(reflect.ValueOf(float32(0.5)), KindDouble))
	require.Equal(t, date.Date("2024-03-05"), fieldValue(reflect.ValueOf(date.Date("2024-03-05")), KindDate))
}
