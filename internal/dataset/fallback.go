package dataset

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"sipre-forecast/internal/model"
)

// FallbackSource loads Primary and, on any failure, Fallback.
type FallbackSource struct {
	Primary  Source
	Fallback Source
	Logger   zerolog.Logger

	mu     sync.Mutex
	served string
}

// NewFallbackSource wraps primary so that any load failure is served by fallback.
func NewFallbackSource(primary, fallback Source, logger zerolog.Logger) *FallbackSource {
	return &FallbackSource{Primary: primary, Fallback: fallback, Logger: logger}
}

func (s *FallbackSource) Name() string {
	return s.Primary.Name() + "+" + s.Fallback.Name()
}

// Served is the name of the source that answered the last successful Load.
func (s *FallbackSource) Served() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served
}

func (s *FallbackSource) Load(ctx context.Context) (model.HistoricalSeries, error) {
	series, err := s.Primary.Load(ctx)
	if err == nil {
		s.setServed(s.Primary.Name())
		return series, nil
	}
	if ctx.Err() != nil {
		return model.HistoricalSeries{}, err
	}

	s.Logger.Warn().
		Err(err).
		Str("source", s.Primary.Name()).
		Str("fallback", s.Fallback.Name()).
		Msg("primary dataset unavailable, loading fallback")

	series, ferr := s.Fallback.Load(ctx)
	if ferr != nil {
		return model.HistoricalSeries{}, ferr
	}
	s.setServed(s.Fallback.Name())
	return series, nil
}

// Close closes both wrapped sources.
func (s *FallbackSource) Close() error {
	return errors.Join(Close(s.Primary), Close(s.Fallback))
}

func (s *FallbackSource) setServed(name string) {
	s.mu.Lock()
	s.served = name
	s.mu.Unlock()
}
