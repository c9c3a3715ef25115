package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sipre-forecast/internal/model"
)

// CSVSource reads the dataset from a comma-separated file with a header row.
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string { return "csv" }

func (s CSVSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoricalSeries{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), err)
	}
	defer f.Close()

	series, err := ReadCSV(f)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("%s: %w", s.Path, err))
	}
	return series, nil
}

// ReadCSV parses a dataset with a named-column header.
func ReadCSV(r io.Reader) (model.HistoricalSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return model.HistoricalSeries{}, err
	}
	if len(records) == 0 {
		return model.HistoricalSeries{}, fmt.Errorf("empty file")
	}
	return parseTable(records[0], records[1:])
}

// WriteCSV writes s with the canonical header, creating parent directories.
func WriteCSV(path string, s model.HistoricalSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(Rows(s)); err != nil {
		return err
	}
	return f.Close()
}
