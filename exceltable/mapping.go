package exceltable

import (
	"bytes"
	"errors"
	"io"

	"github.com/ungerik/go-fs"

	"github.com/domonda/go-sheetmap"
)

// ReadAll reads the records of type T from an Excel file
// at the sheet location declared by T
// or at override if it is not nil.
func ReadAll[T any](reader io.Reader, override *sheetmap.SheetLocation) (records []T, err error) {
	mapper, err := sheetmap.MapperOf[T]()
	if err != nil {
		return nil, err
	}
	wb, err := Open(reader)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, wb.Close())
	}()
	return mapper.ReadAll(wb, override)
}

// ReadFile reads the records of type T from an Excel file
// like ReadAll.
func ReadFile[T any](file fs.FileReader, override *sheetmap.SheetLocation) (records []T, err error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	return ReadAll[T](bytes.NewReader(data), override)
}

// WriteAll writes the records to a new Excel file
// at the sheet location declared by T.
func WriteAll[T any](writer io.Writer, records []T) (err error) {
	mapper, err := sheetmap.MapperOf[T]()
	if err != nil {
		return err
	}
	wb := New()
	defer func() {
		err = errors.Join(err, wb.Close())
	}()
	if err := mapper.WriteAll(wb, records, nil); err != nil {
		return err
	}
	return wb.Write(writer)
}

// WriteFile writes the records to a new Excel file
// like WriteAll.
func WriteFile[T any](file fs.File, records []T) error {
	var buf bytes.Buffer
	if err := WriteAll(&buf, records); err != nil {
		return err
	}
	return file.WriteAll(buf.Bytes())
}
