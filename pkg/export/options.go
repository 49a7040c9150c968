package export

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	serr "serex/pkg/errors"
)

// Format identifies an export target format
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatExcel  Format = "xlsx"
	FormatSheets Format = "sheets"
)

// JSON layouts recognized by JSONOptions.Format
const (
	JSONColumn = "column"
	JSONRow    = "row"
)

// Default destinations per format
const (
	DefaultCSVFileName   = "data.csv"
	DefaultJSONFileName  = "data.json"
	DefaultExcelFilePath = "./output.xlsx"
	DefaultSheetName     = "Sheet1"
	DefaultSheetsRange   = "Sheet1!A1"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json tag names so option errors name the wire-level field
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateStruct runs tag validation and converts the first failure into
// the typed invalid-option error the exporters promise
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return serr.InvalidOption(fe.Field(), validationMessage(fe))
	}
	return serr.InvalidOption("options", err.Error())
}

// validationMessage formats a field error for callers
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// CSVOptions configures CSV rendering and export
type CSVOptions struct {
	// Header prepends a line holding the column name.
	Header bool `json:"header"`
	// Sep joins fields within a line. Single rune, no NUL, quote, or
	// line break.
	Sep rune `json:"sep"`
	// Index prepends the label field to every line.
	Index bool `json:"index"`
	// FileName names the artifact handed to the Saver on export.
	FileName string `json:"fileName" validate:"required"`
}

// DefaultCSVOptions returns the CSV option defaults
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Header:   true,
		Sep:      ',',
		FileName: DefaultCSVFileName,
	}
}

// Validate checks the options eagerly, before any data is touched
func (o CSVOptions) Validate() error {
	if err := validateStruct(o); err != nil {
		return err
	}
	// Mirror the delimiter rules of encoding/csv so rendering cannot
	// fail after validation passes.
	switch {
	case o.Sep == 0:
		return serr.InvalidOption("sep", "must not be NUL")
	case o.Sep == '\r' || o.Sep == '\n':
		return serr.InvalidOption("sep", "must not be a line break")
	case o.Sep == '"':
		return serr.InvalidOption("sep", "must not be the quote character")
	case !utf8.ValidRune(o.Sep):
		return serr.InvalidOption("sep", "must be a valid rune")
	}
	return nil
}

// JSONOptions configures JSON rendering and export
type JSONOptions struct {
	// Format selects the column or row layout. No silent fallback:
	// anything outside the closed set fails validation.
	Format string `json:"format" validate:"required,oneof=column row"`
	// FileName names the artifact handed to the Saver on export.
	FileName string `json:"fileName" validate:"required"`
}

// DefaultJSONOptions returns the JSON option defaults
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		Format:   JSONColumn,
		FileName: DefaultJSONFileName,
	}
}

// Validate checks the options eagerly, before any data is touched
func (o JSONOptions) Validate() error {
	return validateStruct(o)
}

// ExcelOptions configures workbook export
type ExcelOptions struct {
	// SheetName names the single sheet holding the series.
	SheetName string `json:"sheetName" validate:"required"`
	// FilePath targets durable-storage runs, FileName download runs.
	// Setting both is an error; with neither set the default destination
	// applies and the injected Saver interprets it for its environment
	// (a FileSaver as a relative path, an HTTPSaver as the base name).
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
}

// DefaultExcelOptions returns the Excel option defaults
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{SheetName: DefaultSheetName}
}

// Validate checks the options eagerly, before any data is touched
func (o ExcelOptions) Validate() error {
	if err := validateStruct(o); err != nil {
		return err
	}
	if o.FilePath != "" && o.FileName != "" {
		return serr.InvalidOption("filePath", "mutually exclusive with fileName")
	}
	return nil
}

// Destination resolves the workbook target handed to the Saver
func (o ExcelOptions) Destination() string {
	switch {
	case o.FilePath != "":
		return o.FilePath
	case o.FileName != "":
		return o.FileName
	default:
		return DefaultExcelFilePath
	}
}

// SheetsOptions configures Google Sheets export
type SheetsOptions struct {
	// SpreadsheetID identifies the target spreadsheet.
	SpreadsheetID string `json:"spreadsheetId" validate:"required"`
	// Range is the A1-notation anchor the column is written at.
	Range string `json:"range" validate:"required"`
}

// DefaultSheetsOptions returns the Sheets option defaults for a spreadsheet
func DefaultSheetsOptions(spreadsheetID string) SheetsOptions {
	return SheetsOptions{
		SpreadsheetID: spreadsheetID,
		Range:         DefaultSheetsRange,
	}
}

// Validate checks the options eagerly, before any data is touched
func (o SheetsOptions) Validate() error {
	return validateStruct(o)
}
