package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sipre-forecast/internal/model"
)

// XLSXSource reads the dataset from a workbook. Sheet defaults to the first sheet.
type XLSXSource struct {
	Path  string
	Sheet string
}

func (s XLSXSource) Name() string { return "xlsx" }

func (s XLSXSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoricalSeries{}, err
	}
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("failed to open file: %w", err))
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("%s: workbook has no sheets", s.Path))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("sheet %q is empty", sheet))
	}

	series, err := parseTable(rows[0], rows[1:])
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("sheet %q: %w", sheet, err))
	}
	return series, nil
}

// WriteXLSX writes s to a single-sheet workbook.
func WriteXLSX(path, sheet string, s model.HistoricalSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "BCRG"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	for i, row := range Rows(s) {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
