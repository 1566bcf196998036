package sheetmap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StringParser parses the string form of cell values
// into the primitive types of the FieldKind values.
//
// Parsing is lenient where the cell content of spreadsheets
// typically varies:
//   - Booleans are matched case-insensitive against TrueStrings and FalseStrings
//   - Floats with a single comma and no dot use the comma as decimal separator
//   - Integers may be written as floats without fraction like "7.0"
//
// Example:
//
//	parser := NewStringParser()
//	parser.TrueStrings = append(parser.TrueStrings, "ja")
//
//	b, _ := parser.ParseBool("YES")                      // true
//	f, _ := parser.ParseFloat("3,14")                    // 3.14
//	t, _ := parser.ParseTime("05.01.2024", "dd.MM.yyyy") // 2024-01-05
type StringParser struct {
	// TrueStrings lists all strings parsed as boolean true,
	// compared case-insensitive.
	TrueStrings []string `json:"trueStrings"`

	// FalseStrings lists all strings parsed as boolean false,
	// compared case-insensitive.
	FalseStrings []string `json:"falseStrings"`

	// Location is used for times parsed from text without zone information.
	// If nil, UTC is used.
	Location *time.Location `json:"-"`
}

// NewStringParser creates a new StringParser with the default
// boolean strings "true", "yes", "y", "on", "1" and "false", "no", "n", "off", "0".
func NewStringParser() *StringParser {
	return &StringParser{
		TrueStrings:  []string{"true", "yes", "y", "on", "1"},
		FalseStrings: []string{"false", "no", "n", "off", "0"},
	}
}

// ParseInt parses a base 10 integer.
// A float string without fractional part like "7.0"
// as produced by numeric cells is accepted.
func (p *StringParser) ParseInt(str string) (int64, error) {
	i, err := strconv.ParseInt(str, 10, 64)
	if err == nil {
		return i, nil
	}
	if f, e := strconv.ParseFloat(str, 64); e == nil && f == float64(int64(f)) {
		return int64(f), nil
	}
	return 0, err
}

// ParseFloat parses a float, trying a comma as decimal separator
// if the standard parsing fails and str contains exactly one comma and no dot.
func (p *StringParser) ParseFloat(str string) (float64, error) {
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		numDot := strings.Count(str, ".")
		numComma := strings.Count(str, ",")
		if numComma == 1 && numDot == 0 {
			f, e := strconv.ParseFloat(strings.ReplaceAll(str, ",", "."), 64)
			if e != nil {
				return 0, err // return original error
			}
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

// ParseBool parses str case-insensitive against TrueStrings and FalseStrings.
func (p *StringParser) ParseBool(str string) (bool, error) {
	for _, val := range p.TrueStrings {
		if strings.EqualFold(str, val) {
			return true, nil
		}
	}
	for _, val := range p.FalseStrings {
		if strings.EqualFold(str, val) {
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot parse %q as bool", str)
}

// ParseTime parses str using the value format pattern
// or DefaultDatePattern if pattern is empty.
// See GoLayout for the supported pattern syntax.
func (p *StringParser) ParseTime(str, pattern string) (time.Time, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultDatePattern
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(GoLayout(pattern), str, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as time with format %q", str, pattern)
	}
	return t, nil
}

// FormatTime formats t using the value format pattern
// or DefaultDatePattern if pattern is empty.
func (p *StringParser) FormatTime(t time.Time, pattern string) string {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultDatePattern
	}
	return t.Format(GoLayout(pattern))
}
