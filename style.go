package sheetmap

import (
	"fmt"
	"strings"
)

// Style is a bitmask of style tags a field mapping
// can declare for the cells of its column.
type Style int

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleUnderline
	StyleWrapText
	StyleAlignLeft
	StyleAlignCenter
	StyleAlignRight
	StyleBorder
)

var styleNames = []struct {
	style Style
	name  string
}{
	{StyleBold, "bold"},
	{StyleItalic, "italic"},
	{StyleUnderline, "underline"},
	{StyleWrapText, "wrap"},
	{StyleAlignLeft, "left"},
	{StyleAlignCenter, "center"},
	{StyleAlignRight, "right"},
	{StyleBorder, "border"},
}

func (s Style) Has(style Style) bool {
	return s&style != 0
}

func (s Style) String() string {
	var b strings.Builder
	for _, n := range styleNames {
		if s.Has(n.style) {
			if b.Len() > 0 {
				b.WriteString("|")
			}
			b.WriteString(n.name)
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

// ParseStyle parses style tag names separated by '|' or ','
// as returned by Style.String.
// An empty string or "default" returns the zero Style.
func ParseStyle(str string) (Style, error) {
	var s Style
	for _, part := range strings.FieldsFunc(str, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "default" {
			continue
		}
		found := false
		for _, n := range styleNames {
			if n.name == part {
				s |= n.style
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown style tag %q", part)
		}
	}
	return s, nil
}
