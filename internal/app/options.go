package service

import (
	"github.com/okian/fettle/internal/domain/correlation"
	"github.com/okian/fettle/internal/domain/readiness"
	"github.com/okian/fettle/internal/domain/trend"
	"github.com/okian/fettle/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the update queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLookbackDays sets how much history is loaded per scoring request.
func WithLookbackDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.lookbackDays = days
		}
	}
}

// WithEngineConfig sets the scoring engine configuration.
func WithEngineConfig(cfg readiness.Config) Option {
	return func(s *Service) {
		s.engineCfg = cfg
	}
}

// WithTrendConfig sets the trend analyzer configuration.
func WithTrendConfig(cfg trend.Config) Option {
	return func(s *Service) {
		s.trendCfg = cfg
	}
}

// WithCorrelationConfig sets the correlation analyzer configuration.
func WithCorrelationConfig(cfg correlation.Config) Option {
	return func(s *Service) {
		s.corrCfg = cfg
	}
}

// WithDiagnostics attaches baseline intermediates to every result.
func WithDiagnostics() Option {
	return func(s *Service) {
		s.diagnostics = true
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
