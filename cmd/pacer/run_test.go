package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pacer/internal/bench"
	"pacer/internal/results"
	"pacer/internal/runner"
)

type mockRunner struct {
	byName map[string]float64
	err    error
}

func (m *mockRunner) Sample(ctx context.Context, spec bench.Spec) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.byName[spec.Name], nil
}

type mockStore struct {
	saved  []results.Run
	latest *results.Run
	all    []results.Run
}

func (m *mockStore) Save(run results.Run) error {
	m.saved = append(m.saved, run)
	return nil
}

func (m *mockStore) LoadLatest() (*results.Run, error) { return m.latest, nil }
func (m *mockStore) LoadAll() ([]results.Run, error)   { return m.all, nil }

func restoreFactories() {
	newRunnerFunc = func(command string, args ...string) runner.Runner {
		return runner.NewCommandRunner(command, args...)
	}
	newStoreFunc = func(path string) (results.Store, error) {
		return results.NewFileStore(path)
	}
}

// resetViper clears viper state and restores the flag bindings init() set up.
func resetViper() {
	viper.Reset()
	bindRunFlags()
}

func setBenchmarks() {
	viper.Set("benchmarks", []map[string]interface{}{
		{"name": "a", "url": map[string]interface{}{"path": "a.html"}},
		{"name": "b", "url": map[string]interface{}{"path": "b.html"}},
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRunCmd(t *testing.T) {
	defer restoreFactories()
	defer resetViper()
	setBenchmarks()

	mockR := &mockRunner{byName: map[string]float64{"a": 1.0, "b": 2.0}}
	mockS := &mockStore{}
	newRunnerFunc = func(command string, args ...string) runner.Runner { return mockR }
	newStoreFunc = func(path string) (results.Store, error) { return mockS, nil }

	out, err := execute(t, "run", "--plain", "--save",
		"--sample-size", "2", "--timeout", "0", "--seed", "1", "--", "fake-harness")
	require.NoError(t, err)

	// Constant 1ms vs 2ms distributions resolve immediately at the minimum.
	assert.Contains(t, out, "faster")
	assert.Contains(t, out, "slower")
	assert.Contains(t, out, "round 1")
	assert.Contains(t, out, "Results saved")
	require.Len(t, mockS.saved, 1)
	assert.Equal(t, results.OutcomeResolved, mockS.saved[0].Matrix.Outcome)
}

func TestRunCmdBadHorizon(t *testing.T) {
	defer restoreFactories()
	defer resetViper()
	setBenchmarks()

	_, err := execute(t, "run", "--plain", "--horizon", "bogus", "--", "fake-harness")
	assert.Error(t, err)
}

func TestRunCmdNoBenchmarks(t *testing.T) {
	defer resetViper()
	viper.Set("benchmarks", []map[string]interface{}{})

	_, err := execute(t, "run", "--plain", "--", "fake-harness")
	assert.ErrorContains(t, err, "no benchmarks")
}

func TestRunCmdSampleFailure(t *testing.T) {
	defer restoreFactories()
	defer resetViper()
	setBenchmarks()

	mockR := &mockRunner{err: &runner.SampleError{Spec: "a", Err: assert.AnError}}
	newRunnerFunc = func(command string, args ...string) runner.Runner { return mockR }

	// Flag values persist across Execute calls, so reset the horizon the
	// previous test broke.
	_, err := execute(t, "run", "--plain", "--horizon", "0%",
		"--sample-size", "2", "--timeout", "0", "--", "fake-harness")
	require.Error(t, err)
	var sampleErr *runner.SampleError
	assert.ErrorAs(t, err, &sampleErr)
}
