package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pacer/internal/results"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved benchmark runs",
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [index]",
	Short: "Render the comparison matrix of a saved run (latest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.PersistentFlags().String("file", "", "History file (default from config)")
}

func historyStore(cmd *cobra.Command) (results.Store, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = viper.GetString("history_file")
	}
	return newStoreFunc(path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}
	runs, err := store.LoadAll()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tTIMESTAMP\tOUTCOME\tBENCHMARKS")
	for i, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n",
			i, run.Timestamp.Format("2006-01-02 15:04:05"), run.Matrix.Outcome, len(run.Matrix.Rows))
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}
	runs, err := store.LoadAll()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no saved runs")
	}

	idx := len(runs) - 1
	if len(args) == 1 {
		idx, err = strconv.Atoi(args[0])
		if err != nil || idx < 0 || idx >= len(runs) {
			return fmt.Errorf("invalid run index %q (have %d runs)", args[0], len(runs))
		}
	}

	run := runs[idx]
	fmt.Fprintf(cmd.OutOrStdout(), "Run %d - %s (%s)\n\n",
		idx, run.Timestamp.Format("2006-01-02 15:04:05"), run.Matrix.Outcome)
	fmt.Fprint(cmd.OutOrStdout(), results.Render(run.Matrix, false))
	return nil
}
