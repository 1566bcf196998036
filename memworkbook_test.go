package sheetmap

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemWorkbook(t *testing.T) {
	wb := NewMemWorkbook()
	sheet, err := wb.AddStringsSheet("Products", [][]string{
		{"ID", "Name", "Price"},
		nil,
		{"1", "", "9.99"},
	})
	require.NoError(t, err)

	_, err = wb.AddSheet("Products")
	require.Error(t, err, "duplicate sheet name")
	_, err = wb.CreateSheet(" ")
	require.Error(t, err, "blank sheet name")

	require.Equal(t, 2, sheet.LastRowIndex())
	require.Nil(t, sheet.Row(1), "absent row")
	require.Nil(t, sheet.Row(-1))
	require.Nil(t, sheet.Row(3))
	require.Nil(t, sheet.Row(2).Cell(1), "absent cell")

	var cols []int
	for col, cell := range sheet.Row(2).Cells() {
		cols = append(cols, col)
		require.Equal(t, CellText, cell.Kind())
	}
	require.Equal(t, []int{0, 2}, cols)

	row := sheet.CreateRow(4)
	require.Equal(t, 4, row.Index())
	require.NoError(t, row.CreateCell(0).SetNumber(2))
	require.NoError(t, row.CreateCell(1).SetBool(false))
	require.NoError(t, row.CreateCell(2).SetTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, row.CreateCell(2).SetStyle(CellStyle{NumberFormat: "dd.MM.yyyy"}))
	require.Same(t, row, sheet.CreateRow(4), "existing row is returned")

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.Equal(t, "# Products\n"+
		"ID | Name  | Price\n"+
		"\n"+
		"1  |       | 9.99\n"+
		"\n"+
		"2  | false | 01.05.2024\n",
		buf.String(),
	)
}

func TestMemCell(t *testing.T) {
	var cell MemCell
	require.Equal(t, CellEmpty, cell.Kind())

	at := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cell.SetTime(at))
	require.Equal(t, CellNumeric, cell.Kind())
	require.True(t, cell.DateFormatted())
	require.Equal(t, 45296.5, cell.Number())
	require.Equal(t, at, cell.Time())

	require.NoError(t, cell.SetNumber(45296.5))
	require.False(t, cell.DateFormatted(), "number without date format")
	require.NoError(t, cell.SetStyle(CellStyle{NumberFormat: "0.0"}))
	require.False(t, cell.DateFormatted())
	require.NoError(t, cell.SetStyle(CellStyle{NumberFormat: "yyyy-MM-dd HH:mm"}))
	require.True(t, cell.DateFormatted())
	require.Equal(t, at, cell.Time())
	require.Equal(t, "2024-01-05 12:00", cell.String())

	require.NoError(t, cell.SetText("x"))
	require.Equal(t, CellText, cell.Kind())
	require.Equal(t, "x", cell.Text())
	require.Equal(t, CellStyle{NumberFormat: "yyyy-MM-dd HH:mm"}, cell.Style(), "style kept")

	require.Error(t, cell.SetFormula("A1", 1))
	require.NoError(t, cell.SetFormula("A1", "result"))
	require.Equal(t, CellFormula, cell.Kind())
	require.Equal(t, "A1", cell.Formula())
	require.Equal(t, "result", cell.FormulaResult())

	require.NoError(t, cell.SetEmpty())
	require.Equal(t, CellEmpty, cell.Kind())
	require.Equal(t, "", cell.String())
}

func TestExcelSerial(t *testing.T) {
	tests := []struct {
		time   time.Time
		serial float64
	}{
		{time: time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC), serial: 0},
		{time: time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), serial: 61},
		{time: time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC), serial: 45296.75},
		{time: time.Date(2024, 1, 5, 18, 0, 0, 0, time.FixedZone("X", 3600)), serial: 45296.75},
	}
	for _, tt := range tests {
		require.Equal(t, tt.serial, TimeToExcelSerial(tt.time), tt.time.String())
		wall := time.Date(tt.time.Year(), tt.time.Month(), tt.time.Day(), tt.time.Hour(), 0, 0, 0, time.UTC)
		require.Equal(t, wall, ExcelSerialToTime(tt.serial))
	}
}
