package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sipre-forecast/internal/model"
)

// Document is the JSON form of the dataset, used by JSONSource and HTTPSource.
type Document struct {
	UpdatedAt    time.Time           `json:"updated_at"`
	Observations []model.Observation `json:"observations"`
}

// JSONSource reads a Document from a file.
type JSONSource struct {
	Path string
}

func (s JSONSource) Name() string { return "json" }

func (s JSONSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoricalSeries{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("failed to read dataset file: %w", err))
	}
	defer f.Close()

	series, err := decodeDocument(f)
	if err != nil {
		return model.HistoricalSeries{}, unavailable(s.Name(), fmt.Errorf("%s: %w", s.Path, err))
	}
	return series, nil
}

func decodeDocument(r io.Reader) (model.HistoricalSeries, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return model.HistoricalSeries{}, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return newSeries(doc.Observations)
}

// SaveJSON writes s as a Document stamped with updatedAt.
func SaveJSON(path string, s model.HistoricalSeries, updatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(Document{UpdatedAt: updatedAt.UTC(), Observations: s.Observations}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}
