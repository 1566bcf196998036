// Package csvtable implements the sheetmap.Workbook interface
// for CSV files holding a single sheet.
//
// The package handles common CSV variations:
//   - Multiple character encodings (UTF-8, UTF-16LE, ISO 8859-1, Windows 1252, Macintosh)
//   - Various field separators (comma, semicolon, tab)
//   - Different line endings (\n, \r\n, \n\r)
//   - Excel "sep=X" separator declaration lines
//   - Quoted fields with embedded newlines, separators, and quotes
//
// CSV has no cell types, so all parsed cells are text cells
// and typed values are rendered as text when written.
package csvtable

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"
)

// Format describes the encoding and structural format of a CSV file.
//
// Example:
//
//	format := &Format{
//	    Encoding:  "UTF-8",
//	    Separator: ",",
//	    Newline:   "\r\n",
//	}
type Format struct {
	// Encoding specifies the character encoding of the CSV data.
	// Common values: "UTF-8", "UTF-16LE", "ISO 8859-1", "Windows 1252", "Macintosh"
	Encoding string `json:"encoding"`

	// Separator is the field delimiter character (must be single character).
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	Separator string `json:"separator"`

	// Newline specifies the line ending sequence.
	// Valid values: "\n" (LF), "\r\n" (CRLF), "\n\r" (LFCR)
	Newline string `json:"newline"`
}

// NewFormat creates a new Format with the specified separator,
// UTF-8 encoding, and Windows-style line endings (\r\n).
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate checks if the Format configuration is valid.
// It can be safely called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csv.Format")
	case f.Encoding == "":
		return errors.New("missing csv.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csv.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csv.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csv.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csv.Format.Newline: %q", f.Newline)
	}
	return nil
}

func (f *Format) isUTF8() bool {
	return f.Encoding == "UTF-8"
}

// FormatDetectionConfig configures DetectFormat.
type FormatDetectionConfig struct {
	// Encodings is the list of character encodings to test during detection,
	// in priority order.
	Encodings []string `json:"encodings"`

	// EncodingTests contains strings with special characters
	// used to validate the detected encoding.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig with
// defaults for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}

// DetectFormat detects the encoding, line endings, and separator of csv
// and returns the detected format together with the data decoded to UTF-8.
//
// Line endings are "\r\n" if the data contains any, else "\n".
// The separator is taken from a "sep=X" header line
// or is the most frequent of comma, semicolon, and tab,
// defaulting to comma.
func DetectFormat(csv []byte, config *FormatDetectionConfig) (format *Format, decoded []byte, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	csv, format.Encoding, err = charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	csv = sanitizeUTF8(charset.TrimBOM(csv, charset.BOMUTF8))

	// Simple rule: if there are \r\n line endings
	// then take those because that's the standard
	if bytes.Contains(csv, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	firstLine, _, _ := bytes.Cut(csv, []byte(format.Newline))
	if sep := parseSepHeaderLine(firstLine); sep != "" {
		format.Separator = sep
		return format, csv, nil
	}

	var (
		commas     = bytes.Count(csv, []byte{','})
		semicolons = bytes.Count(csv, []byte{';'})
		tabs       = bytes.Count(csv, []byte{'\t'})
	)
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return format, csv, nil
}

// decode converts csv from the format's encoding to UTF-8
// without byte order mark.
func decode(csv []byte, format *Format) ([]byte, error) {
	if format.isUTF8() {
		return sanitizeUTF8(charset.TrimBOM(csv, charset.BOMUTF8)), nil
	}
	enc, err := charset.GetEncoding(format.Encoding)
	if err != nil {
		return nil, err
	}
	csv, err = enc.Decode(csv)
	if err != nil {
		return nil, err
	}
	return sanitizeUTF8(csv), nil
}

// encode converts UTF-8 csv to the format's encoding.
func encode(csv []byte, format *Format) ([]byte, error) {
	if format.isUTF8() {
		return csv, nil
	}
	enc, err := charset.GetEncoding(format.Encoding)
	if err != nil {
		return nil, err
	}
	return enc.Encode(csv)
}

// parseSepHeaderLine returns the separator declared
// by a line like "sep=;" or `"SEP=,"` or an empty string
// if line is not a separator declaration.
func parseSepHeaderLine(line []byte) (sep string) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) < 5 {
		return ""
	}
	if line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			// \u00a0 is No-Break Space (NBSP)
			case '\ufffd', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
