package sheetmap

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Mapper reads records of type T from workbook sheets
// and writes records of type T to workbook sheets
// as described by a Schema.
//
// A Mapper is immutable and safe for concurrent use,
// the workbooks passed to its methods are not.
type Mapper[T any] struct {
	schema   *Schema[T]
	logger   *slog.Logger
	validate *validator.Validate
	parser   *StringParser
}

// NewMapper returns a Mapper for the passed schema
// using DefaultStringParser and discarding log output.
func NewMapper[T any](schema *Schema[T]) *Mapper[T] {
	return &Mapper[T]{
		schema: schema,
		logger: discardLogger,
		parser: DefaultStringParser,
	}
}

// MapperOf returns a Mapper for the schema
// of the struct type T returned by SchemaOf.
func MapperOf[T any]() (*Mapper[T], error) {
	schema, err := SchemaOf[T]()
	if err != nil {
		return nil, err
	}
	return NewMapper(schema), nil
}

// Schema returns the schema of the mapper.
func (m *Mapper[T]) Schema() *Schema[T] {
	return m.schema
}

// WithLogger returns a copy of the mapper logging to logger.
// Dropped columns and skipped fields are logged at debug level,
// rejected rows at warn level.
func (m *Mapper[T]) WithLogger(logger *slog.Logger) *Mapper[T] {
	mod := new(Mapper[T])
	*mod = *m
	if logger == nil {
		logger = discardLogger
	}
	mod.logger = logger
	return mod
}

// WithValidator returns a copy of the mapper validating
// every read record with validate.Struct.
// Rows of records failing validation are excluded from the result.
// Records implementing `Validate() error` are validated
// independently of a validator.
func (m *Mapper[T]) WithValidator(validate *validator.Validate) *Mapper[T] {
	mod := new(Mapper[T])
	*mod = *m
	mod.validate = validate
	return mod
}

// WithParser returns a copy of the mapper using parser
// to parse cell text into field values.
func (m *Mapper[T]) WithParser(parser *StringParser) *Mapper[T] {
	mod := new(Mapper[T])
	*mod = *m
	if parser == nil {
		parser = DefaultStringParser
	}
	mod.parser = parser
	return mod
}

// location returns the override or the location declared by the schema.
func (m *Mapper[T]) location(override *SheetLocation) (SheetLocation, error) {
	var (
		loc SheetLocation
		ok  bool
	)
	if override != nil {
		loc, ok = *override, true
	} else {
		loc, ok = m.schema.Location()
	}
	if !ok {
		return loc, &ValidationError{RecordType: m.schema.RecordType(), Reason: "no sheet location declared or passed"}
	}
	if err := loc.Validate(); err != nil {
		return loc, &ValidationError{RecordType: m.schema.RecordType(), Location: &loc, Reason: err.Error()}
	}
	return loc, nil
}

// ReadAll reads all records from the sheet location declared
// by the schema or the passed override location.
//
// Every existing row from ContentRowIndex to the last row
// of the sheet is decoded into one record, absent rows are skipped.
// Cell values that can't be converted leave their field at the zero value.
//
// A *ValidationError is returned before reading any row
// if the location is invalid or the sheet or header row doesn't exist.
func (m *Mapper[T]) ReadAll(wb Workbook, override *SheetLocation) ([]T, error) {
	records, _, err := m.ReadAllWithReport(wb, override)
	return records, err
}

// ReadAllWithReport reads all records like ReadAll and additionally
// returns a report of all skipped fields and rejected rows.
func (m *Mapper[T]) ReadAllWithReport(wb Workbook, override *SheetLocation) ([]T, *ReadReport, error) {
	loc, sheet, err := m.sheetForRead(wb, override)
	if err != nil {
		return nil, nil, err
	}
	header := sheet.Row(loc.HeaderRowIndex)
	if header == nil {
		return nil, nil, &ValidationError{RecordType: m.schema.RecordType(), Location: &loc, Reason: "header row not found"}
	}
	bindings := resolveHeader(m.schema, header, m.logger)

	report := &ReadReport{Location: loc}
	for _, binding := range bindings {
		report.Bound = append(report.Bound, binding.ColumnName)
	}
	last := sheet.LastRowIndex()
	records := make([]T, 0, max(last-loc.ContentRowIndex+1, 0))
	for rowIndex := loc.ContentRowIndex; rowIndex <= last; rowIndex++ {
		row := sheet.Row(rowIndex)
		if row == nil {
			continue
		}
		report.Rows++
		record, issues := DecodeRow(row, bindings, m.parser)
		for _, issue := range issues {
			m.logger.Debug("skipping field value",
				slog.Int("row", issue.Row),
				slog.Int("column", issue.Column),
				slog.String("field", issue.Field),
				slog.Any("value", issue.Value),
				slog.Any("error", issue.Err),
			)
		}
		report.Issues = append(report.Issues, issues...)
		if err := validateRecord(m.validate, &record); err != nil {
			m.logger.Warn("rejecting invalid record",
				slog.Int("row", rowIndex),
				slog.String("type", m.schema.RecordType().String()),
				slog.Any("error", err),
			)
			report.Rejected = append(report.Rejected, RowRejection{Row: rowIndex, Err: err})
			continue
		}
		records = append(records, record)
	}
	report.Records = len(records)
	return records, report, nil
}

// MapRows calls mapRow for every existing content row
// of the sheet location and returns the records
// where mapRow returned ok as true.
// The header row is not evaluated.
// An error from mapRow stops the iteration and is returned
// wrapped with the row index.
func (m *Mapper[T]) MapRows(wb Workbook, override *SheetLocation, mapRow func(Row) (record T, ok bool, err error)) ([]T, error) {
	loc, sheet, err := m.sheetForRead(wb, override)
	if err != nil {
		return nil, err
	}
	var records []T
	for rowIndex := loc.ContentRowIndex; rowIndex <= sheet.LastRowIndex(); rowIndex++ {
		row := sheet.Row(rowIndex)
		if row == nil {
			continue
		}
		record, ok, err := mapRow(row)
		if err != nil {
			return records, fmt.Errorf("row %d: %w", rowIndex, err)
		}
		if ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *Mapper[T]) sheetForRead(wb Workbook, override *SheetLocation) (SheetLocation, Sheet, error) {
	loc, err := m.location(override)
	if err != nil {
		return loc, nil, err
	}
	if ValueIsNil(reflect.ValueOf(wb)) {
		return loc, nil, &ValidationError{RecordType: m.schema.RecordType(), Location: &loc, Reason: "nil workbook"}
	}
	sheet := loc.sheetIn(wb)
	if sheet == nil {
		return loc, nil, &ValidationError{RecordType: m.schema.RecordType(), Location: &loc, Reason: "sheet not found"}
	}
	return loc, sheet, nil
}

// WriteAll writes the header and one row per record
// to the sheet location declared by the schema or the passed loc.
//
// The sheet is created if it doesn't exist.
// The header is written at HeaderRowIndex and the records
// starting at ContentRowIndex. An empty records slice
// still writes the header.
func (m *Mapper[T]) WriteAll(wb Workbook, records []T, loc *SheetLocation) error {
	l, err := m.location(loc)
	if err != nil {
		return err
	}
	if ValueIsNil(reflect.ValueOf(wb)) {
		return &ValidationError{RecordType: m.schema.RecordType(), Location: &l, Reason: "nil workbook"}
	}
	sheet, err := sheetForWrite(wb, l)
	if err != nil {
		return newIOError("create sheet", &l, -1, -1, err)
	}
	bindings := HeaderFor(m.schema)
	if err := WriteHeader(sheet, l.HeaderRowIndex, bindings); err != nil {
		return withLocation(err, &l)
	}
	for i := range records {
		row := sheet.CreateRow(l.ContentRowIndex + i)
		if err := EncodeRow(row, &records[i], bindings); err != nil {
			return withLocation(err, &l)
		}
	}
	m.logger.Debug("wrote records",
		slog.String("sheet", sheet.Name()),
		slog.Int("records", len(records)),
		slog.Int("columns", len(bindings)),
	)
	return nil
}

// sheetForWrite returns the sheet of the location
// found the same way as for reading, or creates a new sheet.
func sheetForWrite(wb Workbook, loc SheetLocation) (Sheet, error) {
	if sheet := loc.sheetIn(wb); sheet != nil {
		return sheet, nil
	}
	return wb.CreateSheet(loc.sheetNameForWrite())
}

func withLocation(err error, loc *SheetLocation) error {
	if ioErr, ok := err.(*IOError); ok && ioErr.Location == nil {
		ioErr.Location = loc
	}
	return err
}
