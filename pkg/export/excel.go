package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// ExportExcel writes the series as a single-column workbook sheet:
// column name in A1, values down column A in index order. The workbook
// bytes go through the saver with overwrite semantics at the
// destination. Always a side effect; there is no pure render.
func ExportExcel(ctx context.Context, s series.View, opts ExcelOptions, saver Saver) (*Outcome, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), opts.SheetName); err != nil {
		return nil, serr.InvalidOption("sheetName", err.Error())
	}
	if err := f.SetCellValue(opts.SheetName, "A1", s.Name()); err != nil {
		return nil, serr.IOFailure("write header cell", err)
	}
	for i := 0; i < s.Len(); i++ {
		v, err := cellValue(s.DType(), i, s.Value(i))
		if err != nil {
			return nil, err
		}
		if v == nil {
			// Missing values stay empty cells
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(opts.SheetName, cell, v); err != nil {
			return nil, serr.IOFailure(fmt.Sprintf("write cell %s", cell), err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, serr.IOFailure("build workbook", err)
	}

	dest := opts.Destination()
	if err := saver.Save(ctx, dest, buf.Bytes()); err != nil {
		return nil, serr.IOFailure(fmt.Sprintf("save %s", dest), err)
	}
	return &Outcome{Format: FormatExcel, Destination: dest, Bytes: buf.Len()}, nil
}
