package sheetmap

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/domonda/go-types/date"
)

// FieldKind is the semantic type a field mapping
// coerces cell values to and from.
type FieldKind int

const (
	KindText   FieldKind = iota // string
	KindInt                     // int, int8, int16, int32
	KindLong                    // int64
	KindDouble                  // float32, float64
	KindBool                    // bool
	KindTime                    // time.Time
	KindDate                    // date.Date without time of day
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindBool:
		return "boolean"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// DefaultDateOnlyPattern is the display format
// of KindDate values without a declared value format.
const DefaultDateOnlyPattern = "yyyy-MM-dd"

// CellValue returns the intermediate value of a cell:
//   - float64 for a CellNumeric cell, or time.Time if it is date formatted
//   - string for a CellText cell
//   - bool for a CellBoolean cell
//   - the computed result for a CellFormula cell
//   - nil for a CellEmpty or nil cell
func CellValue(cell Cell) any {
	if cell == nil {
		return nil
	}
	switch cell.Kind() {
	case CellNumeric:
		if cell.DateFormatted() {
			return cell.Time()
		}
		return cell.Number()
	case CellText:
		return cell.Text()
	case CellBoolean:
		return cell.Bool()
	case CellFormula:
		return cell.FormulaResult()
	}
	return nil
}

// ToField coerces the intermediate value raw as returned by CellValue
// to the Go type of kind:
//
//	KindText   string
//	KindInt    int
//	KindLong   int64
//	KindDouble float64
//	KindBool   bool
//	KindTime   time.Time
//	KindDate   date.Date
//
// A nil raw value or a blank string for a non-text kind
// is an absent value and returns nil without error.
// A raw value that can't be coerced returns a *ConversionError.
//
// The value format pattern is used to format temporal raw values
// for KindText and to parse strings for KindTime and KindDate.
// If parser is nil, then DefaultStringParser is used.
func ToField(raw any, kind FieldKind, format string, parser *StringParser) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if parser == nil {
		parser = DefaultStringParser
	}
	if kind == KindText {
		if t, ok := raw.(time.Time); ok {
			return parser.FormatTime(t, format), nil
		}
		return stringOf(raw), nil
	}

	str := strings.TrimSpace(stringOf(raw))
	if str == "" {
		return nil, nil
	}
	conversionErr := func(err error) error {
		return &ConversionError{Kind: kind, Format: format, Value: raw, Err: err}
	}
	switch kind {
	case KindInt, KindLong:
		i, err := parser.ParseInt(str)
		if err != nil {
			return nil, conversionErr(err)
		}
		if kind == KindInt {
			if int64(int(i)) != i {
				return nil, conversionErr(strconv.ErrRange)
			}
			return int(i), nil
		}
		return i, nil

	case KindDouble:
		if f, ok := raw.(float64); ok {
			return f, nil
		}
		f, err := parser.ParseFloat(str)
		if err != nil {
			return nil, conversionErr(err)
		}
		return f, nil

	case KindBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		b, err := parser.ParseBool(str)
		if err != nil {
			return nil, conversionErr(err)
		}
		return b, nil

	case KindTime, KindDate:
		t, ok := raw.(time.Time)
		if !ok {
			pattern := format
			if kind == KindDate && strings.TrimSpace(pattern) == "" {
				pattern = DefaultDateOnlyPattern
			}
			var err error
			t, err = parser.ParseTime(str, pattern)
			if err != nil {
				return nil, conversionErr(err)
			}
		}
		if kind == KindDate {
			return date.OfTime(t), nil
		}
		return t, nil
	}
	return nil, conversionErr(errors.ErrUnsupported)
}

// Coerce coerces raw like ToField using DefaultStringParser
// and returns if the result should be assigned to a field.
// ok is false for absent values and failed conversions,
// in which case a field keeps its default value.
func Coerce(raw any, kind FieldKind, format string) (value any, ok bool) {
	value, err := ToField(raw, kind, format, nil)
	if err != nil || value == nil {
		return nil, false
	}
	return value, true
}

// ToCell converts a field value to a raw cell value
// and an optional display format hint:
//   - nil and nil pointers are written as empty string
//   - strings are written as is
//   - integer and float numbers as float64 with the format as hint,
//     integers beyond ±2^53 as decimal string because
//     float64 can't hold them exactly
//   - bools as bool
//   - time.Time and date.Date as time.Time with the format as hint,
//     date.Date defaults to DefaultDateOnlyPattern
//   - encoding.TextMarshaler, fmt.Stringer, and any other value as string
func ToCell(value any, format string) (raw any, formatHint string) {
	switch v := value.(type) {
	case nil:
		return "", ""
	case string:
		return v, ""
	case bool:
		return v, ""
	case time.Time:
		return v, format
	case date.Date:
		if v.IsZero() {
			return "", ""
		}
		if format == "" {
			format = DefaultDateOnlyPattern
		}
		return v.MidnightUTC(), format
	case int:
		return integerCell(int64(v), format)
	case int8:
		return float64(v), format
	case int16:
		return float64(v), format
	case int32:
		return float64(v), format
	case int64:
		return integerCell(v, format)
	case uint:
		return unsignedCell(uint64(v), format)
	case uint8:
		return float64(v), format
	case uint16:
		return float64(v), format
	case uint32:
		return float64(v), format
	case uint64:
		return unsignedCell(v, format)
	case float32:
		return float64(v), format
	case float64:
		return v, format
	case encoding.TextMarshaler:
		txt, err := v.MarshalText()
		if err == nil {
			return string(txt), ""
		}
	case fmt.Stringer:
		return v.String(), ""
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", ""
		}
		return ToCell(rv.Elem().Interface(), format)
	}
	return fmt.Sprint(value), ""
}

// maxExactInteger is the largest magnitude
// of integers exactly representable as float64.
const maxExactInteger = 1 << 53

func integerCell(i int64, format string) (raw any, formatHint string) {
	if i > maxExactInteger || i < -maxExactInteger {
		return strconv.FormatInt(i, 10), ""
	}
	return float64(i), format
}

func unsignedCell(u uint64, format string) (raw any, formatHint string) {
	if u > maxExactInteger {
		return strconv.FormatUint(u, 10), ""
	}
	return float64(u), format
}

func stringOf(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return fmt.Sprint(raw)
}
