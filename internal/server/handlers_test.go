package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/woozymasta/geoaxis/internal/config"
)

func newTestServer(t *testing.T) (*ServerContext, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	output := filepath.Join(dir, "rivers.geojson")
	if err := os.WriteFile(output, []byte(`{"type":"Point","coordinates":[7,51]}`), 0o644); err != nil {
		t.Fatalf("failed to write output: %s", err)
	}

	cfg := &config.Config{
		Format: config.FormatJSON,
		Jobs: []config.Job{
			{Name: "rivers", Input: "rivers.json", Output: output, Format: config.FormatJSON, Aliases: []string{"water"}},
			{Name: "pending", Input: "pending.json", Output: filepath.Join(dir, "pending.geojson"), Format: config.FormatJSON},
		},
	}

	s := NewServerContext(cfg)
	return s, RequestLogger(s.Routes())
}

func do(h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSwap(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name        string
		target      string
		body        string
		wantStatus  int
		wantBody    string
		wantType    string
		wantContain string
	}{
		{
			name:       "coordinates minified",
			target:     "/api/swap?minify=true",
			body:       `[[[1,0],[1,1],[0,1]]]`,
			wantStatus: http.StatusOK,
			wantBody:   `[[[0,1],[1,1],[1,0]]]`,
			wantType:   "application/geo+json",
		},
		{
			name:       "feature with bbox",
			target:     "/api/swap?minify=1&bbox=true",
			body:       `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[51,7]}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"properties":{},"geometry":{"coordinates":[7,51],"type":"Point"},"type":"Feature","bbox":[7,51,7,51]}`,
			wantType:   "application/geo+json",
		},
		{
			name:        "yaml",
			target:      "/api/swap?format=yaml",
			body:        `[51, 7]`,
			wantStatus:  http.StatusOK,
			wantType:    "application/yaml",
			wantContain: "- 7\n- 51\n",
		},
		{
			name:        "bad format",
			target:      "/api/swap?format=xml",
			body:        `[51, 7]`,
			wantStatus:  http.StatusBadRequest,
			wantContain: `unknown format`,
		},
		{
			name:        "malformed coordinates",
			target:      "/api/swap",
			body:        `[[1, 2], [3]]`,
			wantStatus:  http.StatusBadRequest,
			wantContain: `coordinates[1]: position needs at least two values`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tt.target, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %s, got %s", tt.wantBody, rec.Body.String())
			}
			if tt.wantContain != "" && !strings.Contains(rec.Body.String(), tt.wantContain) {
				t.Errorf("expected body containing %q, got %s", tt.wantContain, rec.Body.String())
			}
			if tt.wantType != "" && rec.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("expected content type %q, got %q", tt.wantType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHandleSwapMethodAndSize(t *testing.T) {
	s, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/swap", "", nil)
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("expected 405 with Allow header, got %d %q", rec.Code, rec.Header().Get("Allow"))
	}

	s.MaxBodyBytes = 8
	rec = do(h, http.MethodPost, "/api/swap", `[[51, 7], [52, 8]]`, nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestHandleBounds(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodPost, "/api/bounds", `{"type":"MultiPoint","coordinates":[[51,7],[49,9.5]]}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string][]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %s", err)
	}
	if diff := cmp.Diff(map[string][]float64{"bbox": {49, 7, 51, 9.5}}, got); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}

	if rec := do(h, http.MethodPost, "/api/bounds", `[]`, nil); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for empty document, got %d", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/api/bounds", `{"type":"Nope"}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid document, got %d", rec.Code)
	}
}

func TestHandleJobsList(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/api/jobs", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var jobs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("failed to decode response: %s", err)
	}
	if len(jobs) != 2 || jobs[0]["name"] != "rivers" {
		t.Errorf("unexpected jobs: %v", jobs)
	}
	if _, ok := jobs[0]["input"]; ok {
		t.Error("job input must not be exposed")
	}
}

func TestHandleOutput(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(h, http.MethodGet, "/outputs/water", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/geo+json" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	rec = do(h, http.MethodGet, "/outputs/rivers", "", map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", rec.Code)
	}

	for _, target := range []string{"/outputs/unknown", "/outputs/pending", "/outputs/rivers/extra"} {
		if rec := do(h, http.MethodGet, target, "", nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}
