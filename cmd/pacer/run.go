package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pacer/internal/bench"
	"pacer/internal/config"
	"pacer/internal/results"
	"pacer/internal/runner"
	"pacer/internal/sampler"
	"pacer/internal/ui"
)

var (
	runSave  bool
	runPlain bool
	runJSON  bool
)

// Factories, swappable in tests.
var newRunnerFunc = func(command string, args ...string) runner.Runner {
	return runner.NewCommandRunner(command, args...)
}
var newStoreFunc = func(path string) (results.Store, error) {
	return results.NewFileStore(path)
}

var runCmd = &cobra.Command{
	Use:   "run -- <harness-command> [args...]",
	Short: "Sample every configured benchmark until their differences resolve",
	Long: `Loads the benchmark specs from the config file and collects one sample per
benchmark per round by invoking the harness command (placeholders {name},
{label}, {url}, {version}, {browser} and {measurement} expand per spec; the
harness prints the measured milliseconds as its last output line). Sampling
continues past the minimum until every pairwise comparison clears the
configured horizons or the timeout elapses, then the comparison matrix is
rendered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("sample-size", sampler.DefaultMinSamples, "Minimum samples per benchmark (floor 2)")
	runCmd.Flags().Float64("timeout", 3.0, "Minutes of auto-sampling past the minimum (0 = stop at minimum)")
	runCmd.Flags().String("horizon", "0%", "Comma-delimited horizons, e.g. 0ms,+5%,-5%")
	runCmd.Flags().Int64("seed", 0, "Bootstrap PRNG seed (0 = time-based)")
	runCmd.Flags().Int("resamples", 0, "Bootstrap iterations per estimate")
	runCmd.Flags().String("file", "", "History file for --save")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Append the final matrix to the history file")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Line-based progress instead of the live display")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Emit the final matrix as JSON")

	bindRunFlags()
}

// bindRunFlags wires the run flags into viper. Split out so tests can
// rebind after viper.Reset().
func bindRunFlags() {
	_ = viper.BindPFlag("sample_size", runCmd.Flags().Lookup("sample-size"))
	_ = viper.BindPFlag("timeout", runCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("horizons", runCmd.Flags().Lookup("horizon"))
	_ = viper.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("resamples", runCmd.Flags().Lookup("resamples"))
}

func runRun(cmd *cobra.Command, args []string) error {
	specs, err := config.Specs()
	if err != nil {
		return err
	}
	cfg, err := config.SamplerConfig()
	if err != nil {
		return err
	}

	r := newRunnerFunc(args[0], args[1:]...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var matrix results.Matrix
	interactive := !runPlain && isatty.IsTerminal(os.Stdout.Fd())
	if interactive {
		matrix, err = runInteractive(ctx, cancel, specs, r, cfg)
	} else {
		cfg.Progress = ui.PlainProgress(cmd.OutOrStdout())
		matrix, err = sampler.New(specs, r, cfg).Run(ctx)
	}
	if err != nil {
		return err
	}

	if runJSON {
		return writeJSON(cmd, matrix)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), results.Render(matrix, interactive))

	if runSave {
		store, err := newStoreFunc(historyPath(cmd))
		if err != nil {
			return err
		}
		if err := store.Save(results.Run{Timestamp: time.Now(), Matrix: matrix}); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", historyPath(cmd))
	}
	return nil
}

// runInteractive drives the controller under a live bubbletea display.
func runInteractive(ctx context.Context, cancel context.CancelFunc, specs []bench.Spec, r runner.Runner, cfg sampler.Config) (results.Matrix, error) {
	prog := tea.NewProgram(ui.NewProgressModel())
	cfg.Progress = func(p sampler.Progress) { prog.Send(ui.ProgressMsg(p)) }
	ctrl := sampler.New(specs, r, cfg)

	type outcome struct {
		matrix results.Matrix
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		m, err := ctrl.Run(ctx)
		done <- outcome{matrix: m, err: err}
		prog.Send(ui.DoneMsg{Err: err})
	}()

	if _, err := prog.Run(); err != nil {
		cancel()
		<-done
		return results.Matrix{}, err
	}

	// The display exits on DoneMsg once sampling finished, or earlier when
	// the user aborts.
	select {
	case out := <-done:
		return out.matrix, out.err
	default:
	}
	cancel()
	<-done
	return results.Matrix{}, fmt.Errorf("sampling aborted")
}

func writeJSON(cmd *cobra.Command, matrix results.Matrix) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(matrix)
}

func historyPath(cmd *cobra.Command) string {
	if f, _ := cmd.Flags().GetString("file"); f != "" {
		return f
	}
	return viper.GetString("history_file")
}
