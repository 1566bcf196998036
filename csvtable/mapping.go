package csvtable

import (
	"bytes"
	"io"

	"github.com/ungerik/go-fs"

	"github.com/domonda/go-sheetmap"
)

// ReadAll parses data as CSV in the passed format
// and reads the records of type T from it.
// If format is nil, then the format is detected with DetectFormat.
//
// The sheet location declared by T or override
// must point to the first sheet.
func ReadAll[T any](data []byte, format *Format, override *sheetmap.SheetLocation) ([]T, error) {
	mapper, err := sheetmap.MapperOf[T]()
	if err != nil {
		return nil, err
	}
	var wb *Workbook
	if format == nil {
		wb, err = ParseDetectFormat(data, nil)
	} else {
		wb, err = Parse(data, format)
	}
	if err != nil {
		return nil, err
	}
	return mapper.ReadAll(wb, override)
}

// ReadFile reads the records of type T from a CSV file
// like ReadAll.
func ReadFile[T any](file fs.FileReader, format *Format, override *sheetmap.SheetLocation) ([]T, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	return ReadAll[T](data, format, override)
}

// WriteAll writes the records as CSV in the passed format to writer.
// If format is nil, then comma separated UTF-8
// with "\r\n" line endings is used.
func WriteAll[T any](writer io.Writer, records []T, format *Format) error {
	mapper, err := sheetmap.MapperOf[T]()
	if err != nil {
		return err
	}
	wb := New(format)
	if err := mapper.WriteAll(wb, records, nil); err != nil {
		return err
	}
	return wb.Write(writer)
}

// WriteFile writes the records to a CSV file
// like WriteAll.
func WriteFile[T any](file fs.File, records []T, format *Format) error {
	var buf bytes.Buffer
	if err := WriteAll(&buf, records, format); err != nil {
		return err
	}
	return file.WriteAll(buf.Bytes())
}
