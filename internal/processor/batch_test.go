package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/geoaxis/internal/config"
)

func TestProcessJobs(t *testing.T) {
	dir := t.TempDir()

	var jobs []config.Job
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		input := filepath.Join(dir, name+".json")
		if err := os.WriteFile(input, []byte(`[[51, 7], [52, 8]]`), 0o644); err != nil {
			t.Fatalf("failed to write input: %s", err)
		}
		jobs = append(jobs, config.Job{
			Name:   name,
			Input:  input,
			Output: filepath.Join(dir, "out", name+".geojson"),
			Format: config.FormatJSON,
		})
	}
	jobs[2].Input = filepath.Join(dir, "missing.json")

	// pre-existing output is skipped
	if err := os.MkdirAll(filepath.Join(dir, "out"), 0o755); err != nil {
		t.Fatalf("failed to create output dir: %s", err)
	}
	if err := os.WriteFile(jobs[4].Output, []byte("[]"), 0o644); err != nil {
		t.Fatalf("failed to write output: %s", err)
	}

	results := ProcessJobs(nil, jobs, 3, false)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}

	for i, res := range results {
		if res.Name != jobs[i].Name {
			t.Errorf("result %d: expected name %q, got %q", i, jobs[i].Name, res.Name)
		}
		switch i {
		case 2:
			if res.Err == nil {
				t.Errorf("result %d: expected error for missing input", i)
			}
		case 4:
			if !res.Skipped || res.Err != nil {
				t.Errorf("result %d: expected skip, got %+v", i, res)
			}
		default:
			if res.Err != nil || res.Skipped {
				t.Errorf("result %d: expected success, got %+v", i, res)
			}
			if _, err := os.Stat(res.Output); err != nil {
				t.Errorf("result %d: output missing: %s", i, err)
			}
		}
	}
}

func TestProcessJobsEmpty(t *testing.T) {
	if results := ProcessJobs(nil, nil, 4, false); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
