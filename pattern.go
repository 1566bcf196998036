package sheetmap

import (
	"strings"
)

// Value formats are declared as spreadsheet style patterns
// like "yyyy-MM-dd HH:mm:ss" or "#,##0.00".
// For temporal values the pattern letters are:
//
//	yyyy, yy   year
//	MMMM, MMM  month name, abbreviated month name
//	MM, M      month number with, without zero padding
//	dd, d      day of month
//	EEEE, EEE  weekday name, abbreviated weekday name
//	HH, H      hour 0-23
//	hh, h      hour 1-12
//	mm, m      minute
//	ss, s      second
//	SSS        fractional second digits
//	a          AM/PM marker
//	Z          numeric zone offset like -0700
//	'text'     quoted literal text
//
// A pattern containing the Go reference year "2006"
// is treated as Go time layout and used unchanged.

// GoLayout converts a value format pattern to a Go time layout.
func GoLayout(pattern string) string {
	if strings.Contains(pattern, "2006") {
		return pattern
	}
	var b strings.Builder
	forEachPatternToken(pattern, func(letter rune, count int, literal string) {
		if literal != "" {
			b.WriteString(literal)
			return
		}
		switch letter {
		case 'y':
			if count == 2 {
				b.WriteString("06")
			} else {
				b.WriteString("2006")
			}
		case 'M':
			switch {
			case count >= 4:
				b.WriteString("January")
			case count == 3:
				b.WriteString("Jan")
			case count == 2:
				b.WriteString("01")
			default:
				b.WriteString("1")
			}
		case 'd':
			if count >= 2 {
				b.WriteString("02")
			} else {
				b.WriteString("2")
			}
		case 'E':
			if count >= 4 {
				b.WriteString("Monday")
			} else {
				b.WriteString("Mon")
			}
		case 'H':
			b.WriteString("15")
		case 'h':
			if count >= 2 {
				b.WriteString("03")
			} else {
				b.WriteString("3")
			}
		case 'm':
			if count >= 2 {
				b.WriteString("04")
			} else {
				b.WriteString("4")
			}
		case 's':
			if count >= 2 {
				b.WriteString("05")
			} else {
				b.WriteString("5")
			}
		case 'S':
			b.WriteString(strings.Repeat("0", count))
		case 'a':
			b.WriteString("PM")
		case 'Z':
			b.WriteString("-0700")
		case 'X':
			b.WriteString("Z07:00")
		case 'z':
			b.WriteString("MST")
		default:
			b.WriteString(strings.Repeat(string(letter), count))
		}
	})
	return b.String()
}

var goLayoutToExcel = []struct{ goToken, excel string }{
	{"January", "mmmm"},
	{"Monday", "dddd"},
	{"2006", "yyyy"},
	{"Jan", "mmm"},
	{"Mon", "ddd"},
	{".000000000", ".000"},
	{".000000", ".000"},
	{".000", ".000"},
	{"15", "hh"},
	{"01", "mm"},
	{"02", "dd"},
	{"03", "hh"},
	{"04", "mm"},
	{"05", "ss"},
	{"06", "yy"},
	{"PM", "AM/PM"},
	{"1", "m"},
	{"2", "d"},
	{"3", "h"},
	{"4", "m"},
	{"5", "s"},
}

// ExcelNumberFormat converts a value format pattern
// to an Excel number format code.
// Patterns that are not date patterns like "0.00" are returned unchanged.
func ExcelNumberFormat(pattern string) string {
	if !IsDateFormat(pattern) {
		return pattern
	}
	if strings.Contains(pattern, "2006") {
		var b strings.Builder
	nextToken:
		for rest := pattern; rest != ""; {
			for _, t := range goLayoutToExcel {
				if strings.HasPrefix(rest, t.goToken) {
					b.WriteString(t.excel)
					rest = rest[len(t.goToken):]
					continue nextToken
				}
			}
			b.WriteByte(rest[0])
			rest = rest[1:]
		}
		return b.String()
	}
	var b strings.Builder
	forEachPatternToken(pattern, func(letter rune, count int, literal string) {
		if literal != "" {
			if letter == '\'' {
				b.WriteString(`"` + literal + `"`)
			} else {
				b.WriteString(literal)
			}
			return
		}
		switch letter {
		case 'y', 'd', 'h', 'm', 's':
			b.WriteString(strings.Repeat(string(letter), count))
		case 'M':
			b.WriteString(strings.Repeat("m", count))
		case 'H':
			b.WriteString(strings.Repeat("h", max(count, 2)))
		case 'E':
			if count >= 4 {
				b.WriteString("dddd")
			} else {
				b.WriteString("ddd")
			}
		case 'S':
			b.WriteString(strings.Repeat("0", count))
		case 'a':
			b.WriteString("AM/PM")
		case 'Z', 'X', 'z':
			// No zone support in Excel formats
		default:
			b.WriteString(strings.Repeat(string(letter), count))
		}
	})
	return b.String()
}

// IsDateFormat returns true if a value format pattern
// or Excel number format code formats dates or times.
// Quoted text, bracketed sections like "[Red]",
// and backslash escaped characters are not considered.
func IsDateFormat(pattern string) bool {
	if strings.Contains(pattern, "2006") {
		return true
	}
	inQuote, inBracket, escaped := false, false, false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"' || r == '\'':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			switch r {
			case 'y', 'Y', 'M', 'm', 'd', 'D', 'H', 'h', 's':
				return true
			}
		}
	}
	return false
}

// forEachPatternToken calls fn for every run of the same ASCII letter
// in pattern with the letter and the length of the run,
// or for literal text with literal set and letter being
// '\'' for quoted text and 0 for other characters.
func forEachPatternToken(pattern string, fn func(letter rune, count int, literal string)) {
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			// Quoted literal, '' is an escaped quote
			if i+1 < len(runes) && runes[i+1] == '\'' {
				fn(0, 0, "'")
				i += 2
				continue
			}
			j := i + 1
			var lit strings.Builder
			for j < len(runes) {
				if runes[j] == '\'' {
					if j+1 < len(runes) && runes[j+1] == '\'' {
						lit.WriteRune('\'')
						j += 2
						continue
					}
					break
				}
				lit.WriteRune(runes[j])
				j++
			}
			if lit.Len() > 0 {
				fn('\'', 0, lit.String())
			}
			i = j + 1
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			j := i
			for j < len(runes) && runes[j] == r {
				j++
			}
			fn(r, j-i, "")
			i = j
		default:
			fn(0, 0, string(r))
			i++
		}
	}
}
