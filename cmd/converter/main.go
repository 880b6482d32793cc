package main

import (
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geoaxis/internal/config"
	"github.com/woozymasta/geoaxis/internal/logger"
	"github.com/woozymasta/geoaxis/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES" description:"Limit processing to specific job names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"8"`
	Timeout     int      `short:"t" long:"timeout"     env:"TIMEOUT"     description:"HTTP timeout in seconds" default:"30"`
	Force       bool     `short:"f" long:"force"       description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	jobs, unknown, err := cfg.Filter(opts.Limit)
	for _, name := range unknown {
		log.Error().
			Str("name", name).
			Msg("Job specified in --limit not found in configuration")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Nothing to process")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 30
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: time.Duration(opts.Timeout) * time.Second,
	}

	log.Info().
		Int("jobs_total", len(cfg.Jobs)).
		Int("jobs_queued", len(jobs)).
		Int("concurrency", opts.Concurrency).
		Bool("force", opts.Force).
		Msg("Starting converter")

	results := processor.ProcessJobs(client, jobs, opts.Concurrency, opts.Force)

	var failed, skipped int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Skipped:
			skipped++
		}
	}

	log.Info().
		Int("written", len(results)-failed-skipped).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Converter finished")

	if failed > 0 {
		os.Exit(1)
	}
}
