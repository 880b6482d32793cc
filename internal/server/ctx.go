package server

import (
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geoaxis/internal/config"
)

// defaultMaxBody limits request bodies of the conversion endpoints.
const defaultMaxBody = 32 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config       *config.Config
	JobResolver  map[string]string
	MaxBodyBytes int64
}

// NewServerContext initializes the context and the job name resolver.
func NewServerContext(cfg *config.Config) *ServerContext {
	if cfg == nil {
		cfg = &config.Config{Format: config.FormatJSON}
	}

	resolver := cfg.Resolver()

	log.Info().
		Int("jobs_count", len(cfg.Jobs)).
		Int("names_count", len(resolver)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:       cfg,
		JobResolver:  resolver,
		MaxBodyBytes: defaultMaxBody,
	}
}
