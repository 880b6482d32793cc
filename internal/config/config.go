// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/woozymasta/geoaxis/internal/geo"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const defaultOutputDir = "out"

// Config represents the root configuration file structure.
type Config struct {
	OutputDir string `yaml:"output_dir,omitempty" json:"-"`
	Format    string `yaml:"format,omitempty" json:"format,omitempty"`
	Jobs      []Job  `yaml:"jobs" json:"jobs"`
	Minify    bool   `yaml:"minify,omitempty" json:"minify,omitempty"`
}

// Job represents a single conversion of one GeoJSON source.
type Job struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// defining GeoJSON directly in config.yaml
	Inline *geo.FeatureCollection `yaml:"geojson,omitempty" json:"-"`

	Name    string   `yaml:"name" json:"name"`
	Input   string   `yaml:"input,omitempty" json:"-"` // file path or http(s) URL
	Output  string   `yaml:"output,omitempty" json:"-"`
	Format  string   `yaml:"format,omitempty" json:"format"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Minify  bool     `yaml:"minify,omitempty" json:"minify,omitempty"`
	BBox    bool     `yaml:"bbox,omitempty" json:"bbox,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Normalize fills in defaults, validates the jobs and sorts them by index, then name.
func (c *Config) Normalize() error {
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.Format == "" {
		c.Format = FormatJSON
	}
	if !validFormat(c.Format) {
		return fmt.Errorf("unknown output format %q", c.Format)
	}

	names := make(map[string]string)
	for i := range c.Jobs {
		job := &c.Jobs[i]

		if job.Name == "" {
			return fmt.Errorf("jobs[%d]: name is required", i)
		}
		if (job.Input == "") == (job.Inline == nil) {
			return fmt.Errorf("job %q: exactly one of input or geojson must be set", job.Name)
		}

		if job.Format == "" {
			job.Format = c.Format
		}
		if !validFormat(job.Format) {
			return fmt.Errorf("job %q: unknown output format %q", job.Name, job.Format)
		}
		if c.Minify {
			job.Minify = true
		}
		if job.Output == "" {
			job.Output = filepath.Join(c.OutputDir, job.Name+Extension(job.Format))
		}

		for _, name := range append([]string{job.Name}, job.Aliases...) {
			if owner, ok := names[name]; ok {
				return fmt.Errorf("job %q: name %q already used by job %q", job.Name, name, owner)
			}
			names[name] = job.Name
		}
	}

	sort.SliceStable(c.Jobs, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if c.Jobs[i].Index != nil {
			idxI = *c.Jobs[i].Index
		}
		if c.Jobs[j].Index != nil {
			idxJ = *c.Jobs[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return c.Jobs[i].Name < c.Jobs[j].Name
	})

	return nil
}

// Resolver maps job names and aliases to job names.
func (c *Config) Resolver() map[string]string {
	resolver := make(map[string]string)
	for _, job := range c.Jobs {
		resolver[job.Name] = job.Name
		for _, alias := range job.Aliases {
			resolver[alias] = job.Name
		}
	}

	return resolver
}

// Job returns the job with the given name.
func (c *Config) Job(name string) (Job, bool) {
	for _, job := range c.Jobs {
		if job.Name == name {
			return job, true
		}
	}

	return Job{}, false
}

// Extension returns the file extension used for an output format.
func Extension(format string) string {
	if format == FormatYAML {
		return ".yaml"
	}

	return ".geojson"
}

// ContentType returns the MIME type used for an output format.
func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}

	return "application/geo+json"
}

var ErrNoJobs = errors.New("no jobs matched")

// Filter returns the jobs named in names, in the given order. Names may be
// aliases. Unknown names are returned separately. An empty names list selects every job.
func (c *Config) Filter(names []string) (jobs []Job, unknown []string, err error) {
	if len(names) == 0 {
		return c.Jobs, nil, nil
	}

	resolver := c.Resolver()
	seen := make(map[string]bool)
	for _, name := range names {
		if canonical, ok := resolver[name]; ok {
			name = canonical
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		if job, ok := c.Job(name); ok {
			jobs = append(jobs, job)
		} else {
			unknown = append(unknown, name)
		}
	}

	if len(jobs) == 0 {
		return nil, unknown, ErrNoJobs
	}

	return jobs, unknown, nil
}

func validFormat(format string) bool {
	return format == FormatJSON || format == FormatYAML
}
