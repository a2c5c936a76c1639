package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pacer/internal/bench"
)

func TestParseMillis(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    float64
		wantErr bool
	}{
		{name: "bare number", output: "123\n", want: 123},
		{name: "decimal", output: "123.45\n", want: 123.45},
		{name: "ms suffix", output: "88.5ms\n", want: 88.5},
		{name: "ms with space", output: "88.5 ms\n", want: 88.5},
		{name: "last numeric line wins", output: "warming up\n10.0\nnavigated\n42.5\n", want: 42.5},
		{name: "noise around", output: "chrome 120 started on :9222\n17.25\n", want: 17.25},
		{name: "no measurement", output: "nothing here\n", wantErr: true},
		{name: "empty", output: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMillis(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandPlaceholders(t *testing.T) {
	spec := bench.Spec{
		Name:    "render",
		Label:   "opt",
		URL:     bench.URL{Path: "bench/render.html", Query: "n=50", Version: "v2"},
		Browser: bench.Browser{Name: "chrome", Headless: true},
	}

	assert.Equal(t, "bench/render.html?n=50", expandPlaceholders("{url}", spec))
	assert.Equal(t, "render/opt@v2", expandPlaceholders("{name}/{label}@{version}", spec))
	assert.Equal(t, "chrome-headless", expandPlaceholders("{browser}", spec))
	assert.Equal(t, "callback", expandPlaceholders("{measurement}", spec))
	assert.Equal(t, "plain", expandPlaceholders("plain", spec))
}

func TestCommandRunnerSample(t *testing.T) {
	defer func() { runnerExecCommand = exec.CommandContext }()

	var gotName string
	var gotArgs []string
	runnerExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.Command("echo", "42.5")
	}

	spec := bench.Spec{Name: "render", URL: bench.URL{Path: "r.html"}}
	r := NewCommandRunner("harness", "--url", "{url}")

	ms, err := r.Sample(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 42.5, ms)
	assert.Equal(t, "harness", gotName)
	assert.Equal(t, []string{"--url", "r.html"}, gotArgs)
}

func TestCommandRunnerSampleCommandFails(t *testing.T) {
	defer func() { runnerExecCommand = exec.CommandContext }()
	runnerExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.Command("false")
	}

	r := NewCommandRunner("harness")
	_, err := r.Sample(context.Background(), bench.Spec{Name: "render"})

	var sampleErr *SampleError
	require.ErrorAs(t, err, &sampleErr)
	assert.Equal(t, "render", sampleErr.Spec)
}

func TestCommandRunnerSampleUnparsableOutput(t *testing.T) {
	defer func() { runnerExecCommand = exec.CommandContext }()
	runnerExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.Command("echo", "no measurement here")
	}

	r := NewCommandRunner("harness")
	_, err := r.Sample(context.Background(), bench.Spec{Name: "render"})

	var sampleErr *SampleError
	require.ErrorAs(t, err, &sampleErr)
	assert.Contains(t, err.Error(), "no millisecond measurement")
}

func TestSampleErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &SampleError{Spec: "render", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "render")
}
