package sheetmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type partlyMapped struct {
	Skipped   string
	Name      string     `col:"Name"`
	hidden    string
	Internal  string     `col:"-" colidx:"0"`
	Timestamp *time.Time `colidx:"5" colfmt:"yyyy" colwidth:"20" colstyle:"italic"`
	embeddedPart
}

type embeddedPart struct {
	Note string `col:"Note"`
}

func (*partlyMapped) SheetLocation() SheetLocation { return SheetNamed("Parts") }

type nothingMapped struct {
	A string
	B int
}

func (nothingMapped) SheetLocation() SheetLocation { return SheetAt(2) }

type withoutLocation struct {
	A string `col:"A"`
}

type invalidLocation struct {
	A string `col:"A"`
}

func (invalidLocation) SheetLocation() SheetLocation { return SheetNamed("X").WithRows(0, -1) }

type unsupportedField struct {
	M map[string]int `col:"M"`
}

func (unsupportedField) SheetLocation() SheetLocation { return SheetNamed("X") }

type unsignedField struct {
	U uint64 `col:"U"`
}

func (unsignedField) SheetLocation() SheetLocation { return SheetNamed("X") }

type invalidTag struct {
	A string `col:"A" colidx:"first"`
}

func (invalidTag) SheetLocation() SheetLocation { return SheetNamed("X") }

func TestSchemaOf(t *testing.T) {
	schema, err := SchemaOf[partlyMapped]()
	require.NoError(t, err)

	loc, ok := schema.Location()
	require.True(t, ok, "location declared with pointer receiver")
	require.Equal(t, SheetNamed("Parts"), loc)

	fields := schema.Fields()
	require.Len(t, fields, 3)

	require.Equal(t, "Name", fields[0].Field)
	require.Equal(t, Column{Name: "Name", Index: NoIndex}, fields[0].Column)
	require.Equal(t, KindText, fields[0].Kind)
	require.Equal(t, 1, fields[0].Ordinal, "unmapped field consumes ordinal")

	require.Equal(t, "Timestamp", fields[1].Field)
	require.Equal(t, Column{Index: 5, ValueFormat: "yyyy", Width: 20, Style: StyleItalic}, fields[1].Column)
	require.Equal(t, KindTime, fields[1].Kind)
	require.Equal(t, 3, fields[1].Ordinal, "ignored field consumes ordinal")

	require.Equal(t, "Note", fields[2].Field)
	require.Equal(t, 4, fields[2].Ordinal)

	again, err := SchemaOf[partlyMapped]()
	require.NoError(t, err)
	require.Same(t, schema, again, "cached schema")
}

func TestSchemaOf_Accessors(t *testing.T) {
	schema := MustSchemaOf[partlyMapped]()
	fields := schema.Fields()

	var record partlyMapped
	require.NoError(t, fields[0].Set(&record, "n"))
	require.Equal(t, "n", record.Name)
	require.Equal(t, "n", fields[0].Get(&record))

	require.Nil(t, fields[1].Get(&record), "nil pointer is absent")
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fields[1].Set(&record, at))
	require.Equal(t, &at, record.Timestamp)
	require.Equal(t, at, fields[1].Get(&record))

	require.NoError(t, fields[2].Set(&record, "embedded"))
	require.Equal(t, "embedded", record.Note)

	require.Error(t, fields[0].Set(&record, 1))
}

func TestSchemaOf_EmptySchema(t *testing.T) {
	schema, err := SchemaOf[nothingMapped]()
	require.NoError(t, err)
	require.Equal(t, 0, schema.Len())
	loc, ok := schema.Location()
	require.True(t, ok)
	require.NotNil(t, loc.SheetIndex)
	require.Equal(t, 2, *loc.SheetIndex)
}

func TestSchemaOf_Errors(t *testing.T) {
	check := func(t *testing.T, err error, field string) {
		t.Helper()
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, field, validationErr.Field)
	}
	t.Run("missing location", func(t *testing.T) {
		_, err := SchemaOf[withoutLocation]()
		check(t, err, "")
	})
	t.Run("invalid location", func(t *testing.T) {
		_, err := SchemaOf[invalidLocation]()
		check(t, err, "")
	})
	t.Run("unsupported field type", func(t *testing.T) {
		_, err := SchemaOf[unsupportedField]()
		check(t, err, "M")
	})
	t.Run("uint64 field", func(t *testing.T) {
		_, err := SchemaOf[unsignedField]()
		check(t, err, "U")
	})
	t.Run("invalid tag", func(t *testing.T) {
		_, err := SchemaOf[invalidTag]()
		check(t, err, "A")
	})
	t.Run("not a struct", func(t *testing.T) {
		_, err := SchemaOf[string]()
		check(t, err, "")
	})
}

func TestSchemaFrom_CustomNaming(t *testing.T) {
	type record struct {
		Name string `xls:"Full Name"`
		Age  int    `xls:"Age" pos:"3"`
	}
	naming := &FieldNaming{NameTag: "xls", IndexTag: "pos", Ignore: "-"}
	registry := NewRegistry(naming)
	require.Same(t, naming, registry.Naming())

	_, err := SchemaFrom[record](registry)
	require.Error(t, err, "record has no location")

	type located struct {
		partlyMapped
		Extra string `xls:"Extra"`
	}
	schema, err := SchemaFrom[located](registry)
	require.NoError(t, err, "location method promoted from embedded pointer receiver")
	fields := schema.Fields()
	require.Len(t, fields, 1)
	require.Equal(t, "Extra", fields[0].Field, "no label function uses field name")
}

func TestSchemaOf_Concurrent(t *testing.T) {
	registry := NewRegistry(&DefaultFieldNaming)
	var wg sync.WaitGroup
	schemas := make([]*Schema[partlyMapped], 8)
	for i := range schemas {
		wg.Add(1)
		go func() {
			defer wg.Done()
			schemas[i] = must(SchemaFrom[partlyMapped](registry))
		}()
	}
	wg.Wait()
	for _, s := range schemas {
		require.Equal(t, schemas[0].Fields()[0].Column, s.Fields()[0].Column)
	}
}

func TestSchemaBuilder(t *testing.T) {
	type record struct {
		A string
		B int64
	}
	t.Run("unmapped builder field consumes ordinal", func(t *testing.T) {
		schema, err := NewSchema[record]().
			Text(Column{Index: NoIndex}, func(r *record) *string { return &r.A }).
			Int64(Named("B"), func(r *record) *int64 { return &r.B }).
			Build()
		require.NoError(t, err)
		require.Equal(t, 1, schema.Len())
		require.Equal(t, 1, schema.Fields()[0].Ordinal)
		_, ok := schema.Location()
		require.False(t, ok)
	})
	t.Run("custom accessors", func(t *testing.T) {
		schema, err := NewSchema[record]().
			Custom(At(0), "upper A", KindText,
				func(r *record) any { return r.A + "!" },
				func(r *record, v any) error { r.A = v.(string) + "?"; return nil },
			).
			Build()
		require.NoError(t, err)
		field := schema.Fields()[0]
		require.Equal(t, "upper A", field.Field)
		var r record
		require.NoError(t, field.Set(&r, "x"))
		require.Equal(t, "x?", r.A)
		require.Equal(t, "x?!", field.Get(&r))
	})
	t.Run("wrong value type", func(t *testing.T) {
		schema, err := NewSchema[record]().
			Int64(At(0), func(r *record) *int64 { return &r.B }).
			Build()
		require.NoError(t, err)
		var r record
		require.Error(t, schema.Fields()[0].Set(&r, 1))
		require.Equal(t, "A", schema.Fields()[0].Field)
	})
	t.Run("missing accessor", func(t *testing.T) {
		_, err := NewSchema[record]().
			Custom(At(0), "x", KindText, nil, nil).
			Build()
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
	t.Run("invalid location", func(t *testing.T) {
		_, err := NewSchema[record]().
			Sheet(SheetLocation{}).
			Build()
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestColumnLetter(t *testing.T) {
	for index, want := range map[int]string{-1: "", 0: "A", 25: "Z", 26: "AA", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"} {
		require.Equal(t, want, ColumnLetter(index), "index %d", index)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
