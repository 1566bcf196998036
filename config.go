package sheetmap

import (
	"log/slog"
	"reflect"
	"time"

	"github.com/domonda/go-types/date"
)

var (
	// DefaultDatePattern is used to format and parse
	// temporal values of fields without a value format.
	DefaultDatePattern = "MM/dd/yyyy HH:mm:ss"

	// DefaultFieldNaming provides the default FieldNaming
	// used by SchemaOf with the tags "col", "colidx", "colfmt",
	// "colwidth", "colstyle", ignoring "-" named fields,
	// and labeling fields with SpacePascalCase.
	DefaultFieldNaming = FieldNaming{
		NameTag:   "col",
		IndexTag:  "colidx",
		FormatTag: "colfmt",
		WidthTag:  "colwidth",
		StyleTag:  "colstyle",
		Ignore:    "-",
		Label:     SpacePascalCase,
	}

	// DefaultRegistry caches the schemas extracted by SchemaOf.
	DefaultRegistry = NewRegistry(&DefaultFieldNaming)

	// DefaultStringParser is used by mappers without explicit parser.
	DefaultStringParser = NewStringParser()

	discardLogger = slog.New(slog.DiscardHandler)
)

var (
	typeOfTime = reflect.TypeFor[time.Time]()
	typeOfDate = reflect.TypeFor[date.Date]()
)
