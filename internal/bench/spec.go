package bench

import (
	"fmt"
	"strings"
)

// MeasurementMode selects how a duration is extracted from one run.
type MeasurementMode string

const (
	// MeasureCallback expects the page (or harness) to report an explicit
	// start/stop duration.
	MeasureCallback MeasurementMode = "callback"
	// MeasurePerformance reads a named performance-timeline entry, e.g.
	// first-contentful-paint.
	MeasurePerformance MeasurementMode = "performance"
	// MeasureExpression polls a global expression until it yields a number.
	MeasureExpression MeasurementMode = "expression"
)

// Measurement describes how one millisecond duration is extracted per run.
type Measurement struct {
	Mode MeasurementMode `json:"mode" mapstructure:"mode"`
	// Entry is the performance-timeline entry name for MeasurePerformance.
	Entry string `json:"entry,omitempty" mapstructure:"entry"`
	// Expression is the polled global expression for MeasureExpression.
	Expression string `json:"expression,omitempty" mapstructure:"expression"`
}

// URL locates the page under test: either a remote URL or a local path, with
// an optional query string and version label.
type URL struct {
	Remote  string `json:"remote,omitempty" mapstructure:"remote"`
	Path    string `json:"path,omitempty" mapstructure:"path"`
	Query   string `json:"query,omitempty" mapstructure:"query"`
	Version string `json:"version,omitempty" mapstructure:"version"`
}

func (u URL) String() string {
	s := u.Remote
	if s == "" {
		s = u.Path
	}
	if u.Query != "" {
		s += "?" + u.Query
	}
	return s
}

// Browser describes the browser a spec runs in.
type Browser struct {
	Name     string `json:"name" mapstructure:"name"`
	Headless bool   `json:"headless" mapstructure:"headless"`
	Width    int    `json:"width,omitempty" mapstructure:"width"`
	Height   int    `json:"height,omitempty" mapstructure:"height"`
}

func (b Browser) String() string {
	s := b.Name
	if b.Headless {
		s += "-headless"
	}
	return s
}

// Spec is the identity of one thing being measured: one row of the
// comparison matrix. Immutable once constructed.
type Spec struct {
	Name        string      `json:"name" mapstructure:"name"`
	Label       string      `json:"label,omitempty" mapstructure:"label"`
	URL         URL         `json:"url" mapstructure:"url"`
	Browser     Browser     `json:"browser" mapstructure:"browser"`
	Measurement Measurement `json:"measurement" mapstructure:"measurement"`
}

// ID returns a stable unique key for the spec, used as the sample-store key
// and the matrix row identity.
func (s Spec) ID() string {
	parts := []string{s.Name}
	if s.Label != "" {
		parts = append(parts, s.Label)
	}
	if v := s.URL.Version; v != "" {
		parts = append(parts, v)
	}
	if u := s.URL.String(); u != "" {
		parts = append(parts, u)
	}
	if b := s.Browser.String(); b != "" {
		parts = append(parts, b)
	}
	return strings.Join(parts, "|")
}

// String is the human-readable form used in tables and progress output.
func (s Spec) String() string {
	name := s.Name
	if s.Label != "" {
		name += " [" + s.Label + "]"
	}
	if v := s.URL.Version; v != "" {
		name += " @" + v
	}
	return name
}

// Validate checks a spec is complete enough to run.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("benchmark spec is missing a name")
	}
	if s.URL.Remote == "" && s.URL.Path == "" {
		return fmt.Errorf("benchmark %q needs a url.remote or url.path", s.Name)
	}
	if s.URL.Remote != "" && s.URL.Path != "" {
		return fmt.Errorf("benchmark %q has both url.remote and url.path", s.Name)
	}
	switch s.Measurement.Mode {
	case "", MeasureCallback:
		// callback is the default and needs no extra fields
	case MeasurePerformance:
		if s.Measurement.Entry == "" {
			return fmt.Errorf("benchmark %q: performance measurement needs an entry name", s.Name)
		}
	case MeasureExpression:
		if s.Measurement.Expression == "" {
			return fmt.Errorf("benchmark %q: expression measurement needs an expression", s.Name)
		}
	default:
		return fmt.Errorf("benchmark %q: unknown measurement mode %q", s.Name, s.Measurement.Mode)
	}
	return nil
}

// ValidateAll validates every spec and checks for duplicate identities.
func ValidateAll(specs []Spec) error {
	if len(specs) == 0 {
		return fmt.Errorf("no benchmarks configured")
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID()] {
			return fmt.Errorf("duplicate benchmark %q", s.String())
		}
		seen[s.ID()] = true
	}
	return nil
}
