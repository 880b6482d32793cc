// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/geoaxis/internal/config"
	"github.com/woozymasta/geoaxis/internal/geo"
	"github.com/woozymasta/geoaxis/internal/processor"

	"github.com/rs/zerolog/log"
)

const etagCap = 64

// Routes registers every handler on a new mux.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/swap", s.HandleSwap)
	mux.HandleFunc("/api/bounds", s.HandleBounds)
	mux.HandleFunc("/api/jobs", s.HandleJobsList)
	mux.HandleFunc("/outputs/", s.HandleOutput)

	return mux
}

// HandleJobsList serves the JSON list of configured jobs.
func (s *ServerContext) HandleJobsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Config.Jobs)
}

// HandleSwap converts the posted document between lat/lng and lng/lat order.
// Query parameters: format=json|yaml, minify=true, bbox=true.
func (s *ServerContext) HandleSwap(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = config.FormatJSON
	}
	if format != config.FormatJSON && format != config.FormatYAML {
		writeError(w, r, http.StatusBadRequest, "unknown format "+strconv.Quote(format))
		return
	}

	doc, err := processor.Convert(data, queryBool(q.Get("bbox")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	out, err := processor.Encode(doc, format, queryBool(q.Get("minify")))
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode document")
		writeError(w, r, http.StatusInternalServerError, "encode failed")
		return
	}

	w.Header().Set("Content-Type", config.ContentType(format))
	_, _ = w.Write(out)
}

// HandleBounds reports the bounding box of the posted document in its own axis order.
func (s *ServerContext) HandleBounds(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := geo.DecodeDocument(data)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	b, found := doc.Bound()
	if !found {
		writeError(w, r, http.StatusUnprocessableEntity, "document has no positions")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string][]float64{"bbox": geo.BBox(b)})
}

// HandleOutput serves the converted file of a job, addressed by name or alias.
func (s *ServerContext) HandleOutput(w http.ResponseWriter, r *http.Request) {
	// Path: /outputs/{jobName}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	realName, ok := s.JobResolver[parts[1]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	job, ok := s.Config.Job(realName)
	if !ok || !s.serveFile(w, r, job.Output, config.ContentType(job.Format)) {
		http.NotFound(w, r)
	}
}

func (s *ServerContext) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	return data, true
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
