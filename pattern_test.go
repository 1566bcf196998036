package sheetmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoLayout(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "", want: ""},
		{pattern: "yyyy-MM-dd", want: "2006-01-02"},
		{pattern: "MM/dd/yyyy HH:mm:ss", want: "01/02/2006 15:04:05"},
		{pattern: "d.M.yy", want: "2.1.06"},
		{pattern: "EEEE, d MMMM yyyy", want: "Monday, 2 January 2006"},
		{pattern: "EEE MMM dd hh:mm a", want: "Mon Jan 02 03:04 PM"},
		{pattern: "HH:mm:ss.SSS Z", want: "15:04:05.000 -0700"},
		{pattern: "yyyy-MM-dd'T'HH:mm", want: "2006-01-02T15:04"},
		{pattern: "'It''s' yyyy", want: "It's 2006"},
		{pattern: "2006-01-02", want: "2006-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			require.Equal(t, tt.want, GoLayout(tt.pattern))
		})
	}
}

func TestExcelNumberFormat(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "0.00", want: "0.00"},
		{pattern: "#,##0", want: "#,##0"},
		{pattern: "yyyy-MM-dd", want: "yyyy-mm-dd"},
		{pattern: "MM/dd/yyyy HH:mm:ss", want: "mm/dd/yyyy hh:mm:ss"},
		{pattern: "d.M.yy H:mm", want: "d.m.yy hh:mm"},
		{pattern: "h:mm a", want: "h:mm AM/PM"},
		{pattern: "EEEE dd MMM", want: "dddd dd mmm"},
		{pattern: "yyyy-MM-dd'T'HH:mm", want: `yyyy-mm-dd"T"hh:mm`},
		{pattern: "2006-01-02 15:04:05", want: "yyyy-mm-dd hh:mm:ss"},
		{pattern: "02.01.2006", want: "dd.mm.yyyy"},
		{pattern: "Jan 2, 2006", want: "mmm d, yyyy"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			require.Equal(t, tt.want, ExcelNumberFormat(tt.pattern))
		})
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{pattern: "", want: false},
		{pattern: "General", want: false},
		{pattern: "0.00", want: false},
		{pattern: "0.00E+00", want: false},
		{pattern: "@", want: false},
		{pattern: `#,##0 "days"`, want: false},
		{pattern: `[Red]#,##0`, want: false},
		{pattern: `0\d`, want: false},
		{pattern: "yyyy-MM-dd", want: true},
		{pattern: "m/d/yy h:mm", want: true},
		{pattern: "[$-409]mmmm d, yyyy", want: true},
		{pattern: "hh:mm:ss", want: true},
		{pattern: "2006-01-02", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			require.Equal(t, tt.want, IsDateFormat(tt.pattern))
		})
	}
}
