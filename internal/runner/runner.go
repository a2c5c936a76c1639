package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"pacer/internal/bench"
)

// Runner produces one millisecond measurement for one spec. A failed sample
// is returned as a *SampleError; callers treat it as fatal for the whole
// invocation, since a failed sample cannot be told apart from a
// systematically broken benchmark.
type Runner interface {
	Sample(ctx context.Context, spec bench.Spec) (float64, error)
}

// SampleError wraps a failed measurement for one spec.
type SampleError struct {
	Spec string
	Err  error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample failed for %s: %v", e.Spec, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }

// runnerExecCommand allows mocking exec in tests.
var runnerExecCommand = exec.CommandContext

// Matches a trailing millisecond measurement such as "123", "123.4" or
// "123.4ms" on a line of harness output.
var millisRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*(?:ms)?$`)

// CommandRunner measures by executing an external harness command once per
// sample. The command receives the spec through placeholder expansion and
// must print the measured duration in milliseconds as the last numeric line
// of stdout. Browser control stays behind the harness: to pacer it is just a
// command that prints one number.
type CommandRunner struct {
	Command string
	Args    []string
}

func NewCommandRunner(command string, args ...string) *CommandRunner {
	return &CommandRunner{Command: command, Args: args}
}

// Sample runs the harness once and parses the measurement from its output.
func (r *CommandRunner) Sample(ctx context.Context, spec bench.Spec) (float64, error) {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = expandPlaceholders(a, spec)
	}

	cmd := runnerExecCommand(ctx, expandPlaceholders(r.Command, spec), args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return 0, &SampleError{
			Spec: spec.String(),
			Err:  fmt.Errorf("%w\noutput:\n%s", err, out.String()),
		}
	}

	ms, err := ParseMillis(out.String())
	if err != nil {
		return 0, &SampleError{Spec: spec.String(), Err: err}
	}
	return ms, nil
}

// ParseMillis extracts the measurement from harness output: the last line
// that is a bare number, optionally suffixed with "ms".
func ParseMillis(output string) (float64, error) {
	var (
		ms    float64
		found bool
	)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		m := millisRe.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			ms = v
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("no millisecond measurement in output:\n%s", output)
	}
	return ms, nil
}

// expandPlaceholders substitutes spec fields into a command argument.
// Supported placeholders: {name}, {label}, {url}, {version}, {browser},
// {measurement}.
func expandPlaceholders(arg string, spec bench.Spec) string {
	mode := spec.Measurement.Mode
	if mode == "" {
		mode = bench.MeasureCallback
	}
	repl := strings.NewReplacer(
		"{name}", spec.Name,
		"{label}", spec.Label,
		"{url}", spec.URL.String(),
		"{version}", spec.URL.Version,
		"{browser}", spec.Browser.String(),
		"{measurement}", string(mode),
	)
	return repl.Replace(arg)
}
