package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrSheetExists is returned by Workbook.CreateSheet
	// for a sheet name that is already used in the workbook.
	ErrSheetExists = errors.New("sheet already exists")

	// ErrClosed is returned when writing a closed Workbook.
	ErrClosed = errors.New("workbook closed")
)

// ErrSheetNotExist is re-exported from excelize and indicates that a requested
// sheet name does not exist in the Excel file.
//
// Example:
//
//	var sheetErr exceltable.ErrSheetNotExist
//	if errors.As(err, &sheetErr) {
//	    fmt.Printf("Sheet not found: %s\n", sheetErr.SheetName)
//	}
type ErrSheetNotExist = excelize.ErrSheetNotExist
