package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/psam/am"
	"github.com/teranos/psam/cmd/psam/commands"
	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/logger"
)

var rootCmd = &cobra.Command{
	Use:   "psam",
	Short: "psam - evaluate binary classifiers over binary feature vectors",
	Long: `psam - train and evaluate binary classifiers over fixed-width binary
feature vectors, reporting per-split confusion statistics.

Learners:
  nbayes  - naive Bayes
  knn     - k-nearest-neighbor by Hamming distance
  id3     - decision tree with optional gain and chi-square pruning

The corpus is CSV without a header, one instance per line:
  name,label,f0,f1,...

Each fold prints "[n00, n01, n10, n11] accuracy", where nXY counts test
instances with actual label X predicted as Y.

Examples:
  psam nbayes features.csv                 # single 50/50 split
  psam --crossval 10 knn -k 3 features.csv # 10-way cross-validation
  psam --crossval 0 id3 -g 0.05 < f.csv    # leave-one-out, corpus on stdin
  psam plan experiments.toml               # batch of experiments
  psam history ls                          # recorded runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")

		// Config errors surface in the command itself; logging falls back to defaults
		if cfg, err := am.Load(); err == nil {
			jsonLogs = jsonLogs || cfg.Log.JSON
			if cfg.Log.Theme != "" {
				logger.SetTheme(cfg.Log.Theme)
			}
		}

		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity), "json", jsonLogs)
		return nil
	},
}

func init() {
	commands.AddEvalFlags(rootCmd)
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write diagnostic logs to stderr as JSON")

	rootCmd.AddCommand(commands.NBayesCmd)
	rootCmd.AddCommand(commands.KNNCmd)
	rootCmd.AddCommand(commands.ID3Cmd)
	rootCmd.AddCommand(commands.PlanCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err))
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintln(os.Stderr, pterm.Info.Sprint(hints))
		}
		os.Exit(1)
	}
}
