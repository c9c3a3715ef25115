package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Source kinds accepted by Open.
const (
	KindCSV       = "csv"
	KindXLSX      = "xlsx"
	KindJSON      = "json"
	KindSQL       = "sql"
	KindHTTP      = "http"
	KindSynthetic = "synthetic"
)

// Options select a source kind and its settings for Open.
type Options struct {
	Kind   string
	Path   string
	Sheet  string
	DSN    string
	Query  string
	URL    string
	APIKey string
	Seed   int64
	// SyntheticFallback wraps the source in a FallbackSource backed by SyntheticSource{Seed}.
	SyntheticFallback bool
}

// Open builds the configured source. An empty Kind is inferred from the path
// extension. For KindSQL the connection is opened eagerly; a failure there is
// returned unless SyntheticFallback is set.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (Source, error) {
	kind := opts.Kind
	if kind == "" {
		kind = KindFromPath(opts.Path)
	}

	var src Source
	switch kind {
	case KindCSV:
		src = CSVSource{Path: opts.Path}
	case KindXLSX:
		src = XLSXSource{Path: opts.Path, Sheet: opts.Sheet}
	case KindJSON:
		src = JSONSource{Path: opts.Path}
	case KindHTTP:
		src = NewHTTPSource(opts.URL, opts.APIKey, logger)
	case KindSynthetic:
		return SyntheticSource{Seed: opts.Seed}, nil
	case KindSQL:
		db, err := OpenPostgres(ctx, opts.DSN)
		if err != nil {
			if !opts.SyntheticFallback {
				return nil, unavailable(KindSQL, err)
			}
			logger.Warn().Err(err).Msg("database unavailable, using synthetic dataset")
			return SyntheticSource{Seed: opts.Seed}, nil
		}
		src = SQLSource{DB: db, Query: opts.Query}
	default:
		return nil, fmt.Errorf("unknown dataset source %q", kind)
	}

	if opts.SyntheticFallback {
		return NewFallbackSource(src, SyntheticSource{Seed: opts.Seed}, logger), nil
	}
	return src, nil
}

// KindFromPath maps a file extension to a source kind, defaulting to csv.
func KindFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".json":
		return KindJSON
	default:
		return KindCSV
	}
}

// ServedBy names the source that answered the last Load of src.
func ServedBy(src Source) string {
	if fb, ok := src.(*FallbackSource); ok && fb.Served() != "" {
		return fb.Served()
	}
	return src.Name()
}

// Close releases whatever src holds open, such as a database connection.
// Sources without resources are a no-op.
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
