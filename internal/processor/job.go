// Package processor handles fetching, converting and writing GeoJSON jobs.
package processor

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/geoaxis/internal/config"
	"github.com/woozymasta/geoaxis/internal/geo"

	"github.com/rs/zerolog/log"
)

// Convert decodes data, swaps its axis order and optionally adds a bbox.
func Convert(data []byte, bbox bool) (*geo.Document, error) {
	doc, err := geo.DecodeDocument(data)
	if err != nil {
		return nil, err
	}

	out := doc.Swapped()
	if bbox {
		out.SetBBox()
	}

	return out, nil
}

// ProcessJob converts one job's source and writes the result to its output.
// It reports written=false when the output already exists and force is not set.
func ProcessJob(client *http.Client, job config.Job, force bool) (written bool, err error) {
	// Check if file exists
	if _, err := os.Stat(job.Output); err == nil {
		if !force {
			log.Debug().Str("job", job.Name).Str("path", job.Output).Msg("Output file exists, skipping")
			return false, nil
		}
	}

	var doc *geo.Document

	// Inline Data Priority
	if job.Inline != nil {
		log.Info().
			Str("job", job.Name).
			Msg("Using inline GeoJSON data from config")

		doc = (&geo.Document{Collection: job.Inline}).Swapped()
		if job.BBox {
			doc.SetBBox()
		}
	} else {
		log.Info().
			Str("job", job.Name).
			Str("source", job.Input).
			Msg("Processing GeoJSON source")

		data, err := readSource(client, job.Input)
		if err != nil {
			return false, err
		}

		doc, err = Convert(data, job.BBox)
		if err != nil {
			return false, err
		}
	}

	data, err := Encode(doc, job.Format, job.Minify)
	if err != nil {
		return false, err
	}

	if err := writeOutput(job.Output, data); err != nil {
		return false, err
	}

	log.Info().
		Str("job", job.Name).
		Str("path", job.Output).
		Int("bytes", len(data)).
		Msg("Output written")

	return true, nil
}

// writeOutput writes data to path through a temporary file in the same directory.
func writeOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, ".geoaxis-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}

	// We care about write errors on close
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Chmod(tmp, 0644); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
