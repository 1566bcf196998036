package sheetmap

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ColumnBinding binds a field mapping to a concrete column
// of a sheet for the duration of one read or write call.
type ColumnBinding[T any] struct {
	Field       *FieldMapping[T]
	ColumnIndex int
	ColumnName  string
}

// ResolveHeader binds the fields of schema to the columns
// of the header row of a sheet that is read.
//
// Fields declaring an Index are bound to that column
// if the header has a non blank label there,
// the label becomes the ColumnName.
// Fields only declaring a Name are bound to the first column
// with an equal label after trimming and Unicode NFC normalization.
// Fields that can't be bound are dropped.
// Two fields bound to the same column are both kept.
//
// A nil header row binds no fields.
func ResolveHeader[T any](schema *Schema[T], header Row) []ColumnBinding[T] {
	return resolveHeader(schema, header, discardLogger)
}

func resolveHeader[T any](schema *Schema[T], header Row, logger *slog.Logger) []ColumnBinding[T] {
	if header == nil {
		logger.Debug("no header row to bind fields")
		return nil
	}
	var (
		nameToIndex = make(map[string]int)
		indexToName = make(map[int]string)
	)
	for col, cell := range header.Cells() {
		label := headerLabel(cell)
		if label == "" {
			continue
		}
		if _, exists := indexToName[col]; !exists {
			indexToName[col] = label
		}
		if _, exists := nameToIndex[label]; !exists {
			nameToIndex[label] = col
		}
	}

	bindings := make([]ColumnBinding[T], 0, len(schema.fields))
	boundColumns := make(map[int]string)
	for _, field := range schema.fields {
		binding := ColumnBinding[T]{Field: field}
		if field.Index >= 0 {
			name, ok := indexToName[field.Index]
			if !ok {
				logger.Debug("dropping field without header label at its index",
					slog.String("field", field.Field),
					slog.Int("index", field.Index),
				)
				continue
			}
			binding.ColumnIndex = field.Index
			binding.ColumnName = name
		} else {
			index, ok := nameToIndex[normalizeLabel(field.Name)]
			if !ok {
				logger.Debug("dropping field without matching header label",
					slog.String("field", field.Field),
					slog.String("name", field.Name),
				)
				continue
			}
			binding.ColumnIndex = index
			binding.ColumnName = indexToName[index]
		}
		if other, exists := boundColumns[binding.ColumnIndex]; exists {
			logger.Debug("fields share a column",
				slog.String("field", field.Field),
				slog.String("other", other),
				slog.Int("index", binding.ColumnIndex),
			)
		} else {
			boundColumns[binding.ColumnIndex] = field.Field
		}
		bindings = append(bindings, binding)
	}
	return bindings
}

// HeaderFor returns the bindings of all fields of schema
// for writing, sorted ascending by the column index
// they are written to. Fields with equal index keep their
// declaration order.
func HeaderFor[T any](schema *Schema[T]) []ColumnBinding[T] {
	bindings := make([]ColumnBinding[T], len(schema.fields))
	for i, field := range schema.fields {
		bindings[i] = ColumnBinding[T]{
			Field:       field,
			ColumnIndex: field.EffectiveIndex(),
			ColumnName:  field.HeaderName(),
		}
	}
	slices.SortStableFunc(bindings, func(a, b ColumnBinding[T]) int {
		return cmp.Compare(a.ColumnIndex, b.ColumnIndex)
	})
	return bindings
}

// headerLabel returns the normalized string form
// of a header cell of any kind.
func headerLabel(cell Cell) string {
	switch v := CellValue(cell).(type) {
	case nil:
		return ""
	case string:
		return normalizeLabel(v)
	case float64:
		return normalizeLabel(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return normalizeLabel(strconv.FormatBool(v))
	default:
		return normalizeLabel(stringOf(v))
	}
}

func normalizeLabel(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}
