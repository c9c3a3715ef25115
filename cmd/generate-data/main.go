package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sipre-forecast/internal/dataset"
	"sipre-forecast/internal/logging"
	"sipre-forecast/internal/model"

	"github.com/rs/zerolog"
)

func main() {
	var (
		outputPath = flag.String("output", "data/bcrg_data.csv", "Output file path (.csv, .json or .xlsx)")
		format     = flag.String("format", "", "Output format: csv, json or xlsx (default: from extension)")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed; fix it for a reproducible dataset")
		sheet      = flag.String("sheet", "BCRG", "Sheet name for xlsx output")
	)
	flag.Parse()

	logger := logging.NewWithWriter(os.Stderr, "console", zerolog.InfoLevel)

	kind := *format
	if kind == "" {
		kind = dataset.KindFromPath(*outputPath)
	}

	history := dataset.TrendSeries(rand.New(rand.NewSource(*seed)))

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create output directory")
	}
	if err := write(kind, *outputPath, *sheet, history); err != nil {
		logger.Fatal().Err(err).Str("path", *outputPath).Msg("failed to write dataset")
	}

	logger.Info().
		Str("path", *outputPath).
		Str("format", kind).
		Int64("seed", *seed).
		Int("observations", history.Len()).
		Str("first", history.FirstDate().Format(model.DateLayout)).
		Str("last", history.LastDate().Format(model.DateLayout)).
		Msg("dataset generated")
}

func write(kind, path, sheet string, history model.HistoricalSeries) error {
	switch strings.ToLower(kind) {
	case dataset.KindCSV:
		return dataset.WriteCSV(path, history)
	case dataset.KindJSON:
		return dataset.SaveJSON(path, history, time.Now().UTC())
	case dataset.KindXLSX:
		return dataset.WriteXLSX(path, sheet, history)
	default:
		return fmt.Errorf("unsupported output format %q", kind)
	}
}
