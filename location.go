package sheetmap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SheetLocation describes where the records of a type
// are located within a Workbook.
//
// At least one of SheetName or SheetIndex must be set,
// a nil SheetIndex means the index is not set.
// If both are set, SheetIndex takes precedence
// for reading and writing.
//
// ContentRowIndex is the first row read or written as record.
// For reading it may be overridden per call,
// for writing it is where the first record is written.
type SheetLocation struct {
	SheetName       string `json:"sheetName,omitempty"`
	SheetIndex      *int   `json:"sheetIndex,omitempty"`
	HeaderRowIndex  int    `json:"headerRowIndex" validate:"gte=0"`
	ContentRowIndex int    `json:"contentRowIndex" validate:"gte=0"`
}

// SheetNamed returns a SheetLocation for the sheet with the passed name
// with the header in the first row and content starting at the second row.
func SheetNamed(name string) SheetLocation {
	return SheetLocation{SheetName: name, HeaderRowIndex: 0, ContentRowIndex: 1}
}

// SheetAt returns a SheetLocation for the sheet at the zero based index
// with the header in the first row and content starting at the second row.
func SheetAt(index int) SheetLocation {
	return SheetLocation{SheetIndex: &index, HeaderRowIndex: 0, ContentRowIndex: 1}
}

// WithRows returns a copy of the location with the passed
// header and content row indices.
func (l SheetLocation) WithRows(headerRowIndex, contentRowIndex int) SheetLocation {
	l.HeaderRowIndex = headerRowIndex
	l.ContentRowIndex = contentRowIndex
	return l
}

// WithIndex returns a copy of the location with the passed sheet index.
func (l SheetLocation) WithIndex(index int) SheetLocation {
	l.SheetIndex = &index
	return l
}

func (l SheetLocation) HasName() bool  { return strings.TrimSpace(l.SheetName) != "" }
func (l SheetLocation) HasIndex() bool { return l.SheetIndex != nil }

func (l SheetLocation) String() string {
	var b strings.Builder
	b.WriteString("sheet")
	if l.HasName() {
		fmt.Fprintf(&b, " %q", l.SheetName)
	}
	if l.HasIndex() {
		fmt.Fprintf(&b, " #%d", *l.SheetIndex)
	}
	fmt.Fprintf(&b, " (header row %d, content row %d)", l.HeaderRowIndex, l.ContentRowIndex)
	return b.String()
}

var locationValidator = validator.New()

// Validate returns an error if neither SheetName nor SheetIndex is set
// or if the sheet index or a row index is negative.
func (l SheetLocation) Validate() error {
	if !l.HasName() && !l.HasIndex() {
		return errors.New("sheet location needs a sheet name or index")
	}
	if l.HasIndex() && *l.SheetIndex < 0 {
		return fmt.Errorf("negative sheet index %d", *l.SheetIndex)
	}
	if err := locationValidator.Struct(l); err != nil {
		return validationErrorsMessage(err)
	}
	return nil
}

// sheetIn returns the sheet of the location within wb or nil.
// Reading and writing both look up sheets with it.
func (l SheetLocation) sheetIn(wb Workbook) Sheet {
	var sheet Sheet
	if l.HasIndex() {
		sheet = wb.SheetAt(*l.SheetIndex)
	} else {
		sheet = wb.SheetByName(l.SheetName)
	}
	if ValueIsNil(reflect.ValueOf(sheet)) {
		return nil
	}
	return sheet
}

// sheetNameForWrite returns the name a new sheet is created with.
func (l SheetLocation) sheetNameForWrite() string {
	if l.HasName() {
		return l.SheetName
	}
	return fmt.Sprintf("Sheet%d", *l.SheetIndex+1)
}
