package sheetmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringColumnWidths(t *testing.T) {
	rows := [][]string{
		{"Hello", "World", "!"},
		nil,
		{"Größe"},
		{"A", "Longer cell"},
	}
	tests := []struct {
		name    string
		numCols int
		want    []int
	}{
		{name: "detect columns", numCols: -1, want: []int{5, 11, 1}},
		{name: "fewer columns", numCols: 2, want: []int{5, 11}},
		{name: "more columns", numCols: 4, want: []int{5, 11, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StringColumnWidths(rows, tt.numCols))
		})
	}
	require.Nil(t, StringColumnWidths(nil, -1))
}

func TestWriteAlignedRows(t *testing.T) {
	rows := [][]string{
		{"ä", "bb"},
		nil,
		{"ccc"},
	}
	var b strings.Builder
	require.NoError(t, writeAlignedRows(&b, rows, StringColumnWidths(rows, -1)))
	require.Equal(t, "ä   | bb\n\nccc |\n", b.String())
}
