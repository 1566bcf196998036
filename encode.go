package sheetmap

import (
	"fmt"
	"time"
)

// WriteHeader writes the ColumnName of every binding as text
// into the row at rowIndex of sheet and sets the column widths.
// Columns with a Width > 0 get that width, all others are auto sized.
func WriteHeader[T any](sheet Sheet, rowIndex int, bindings []ColumnBinding[T]) error {
	row := sheet.CreateRow(rowIndex)
	for _, binding := range bindings {
		err := row.CreateCell(binding.ColumnIndex).SetText(binding.ColumnName)
		if err != nil {
			return newIOError("write header", nil, rowIndex, binding.ColumnIndex, err)
		}
		if binding.Field.Width > 0 {
			err = sheet.SetColumnWidth(binding.ColumnIndex, binding.Field.Width)
		} else {
			err = sheet.AutoSizeColumn(binding.ColumnIndex)
		}
		if err != nil {
			return newIOError("size column", nil, rowIndex, binding.ColumnIndex, err)
		}
	}
	return nil
}

// EncodeRow writes the field values of record into row.
//
// Each value is converted with ToCell using the ValueFormat
// of its field. The format hint and the style tags of the field
// are applied as CellStyle. Absent values like nil pointers
// convert to an empty string, and empty strings are written
// as empty cells so they read back as absent values
// from every Workbook implementation.
func EncodeRow[T any](row Row, record *T, bindings []ColumnBinding[T]) error {
	for _, binding := range bindings {
		cell := row.CreateCell(binding.ColumnIndex)
		raw, formatHint := ToCell(binding.Field.Get(record), binding.Field.ValueFormat)
		if err := setCellValue(cell, raw); err != nil {
			return newIOError("write cell", nil, row.Index(), binding.ColumnIndex, err)
		}
		style := CellStyle{NumberFormat: formatHint, Style: binding.Field.Style}
		if style.IsZero() {
			continue
		}
		if err := cell.SetStyle(style); err != nil {
			return newIOError("style cell", nil, row.Index(), binding.ColumnIndex, err)
		}
	}
	return nil
}

func setCellValue(cell Cell, raw any) error {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return cell.SetEmpty()
		}
		return cell.SetText(v)
	case float64:
		return cell.SetNumber(v)
	case bool:
		return cell.SetBool(v)
	case time.Time:
		return cell.SetTime(v)
	}
	return fmt.Errorf("unsupported raw cell value %T", raw)
}
