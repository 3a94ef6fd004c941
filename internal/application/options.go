package application

import (
	"io"
	"log/slog"

	"github.com/bnema/feedsync/internal/ports"
)

type settings struct {
	logger  *slog.Logger
	metrics ports.Metrics
	clock   ports.Clock
}

// Option configures the ambient collaborators shared by the components in
// this package.
type Option func(*settings)

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics ports.Metrics) Option {
	return func(s *settings) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

func WithClock(clock ports.Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: ports.NopMetrics{},
		clock:   ports.SystemClock{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
