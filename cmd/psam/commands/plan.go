package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/psam/display"
	"github.com/teranos/psam/history"
	"github.com/teranos/psam/logger"
	"github.com/teranos/psam/plan"
	"github.com/teranos/psam/sym"
)

// PlanCmd runs a batch of experiments from a TOML plan file
var PlanCmd = &cobra.Command{
	Use:   "plan <plan.toml>",
	Short: sym.Plan + " Run a batch of experiments from a TOML plan",
	Long: sym.Plan + ` plan - run several learner configurations in one go.

  corpus = "features.csv"   # default corpus, relative to the plan file
  seed = 7                  # default shuffle seed
  crossval = 10             # default fold count (omit for 50/50)

  [[experiment]]
  name = "knn-3"
  algorithm = "knn"
  k = 3

  [[experiment]]
  algorithm = "id3"
  min_gain = 0.05
  significance = 0.05

Results are shown as one summary table. With --record every experiment is
stored in the run history.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	p, err := plan.Load(args[0])
	if err != nil {
		return err
	}

	outcomes, err := p.Run(cmd.Context(), logger.ComponentLogger("plan"), nil)
	if err != nil {
		return err
	}

	runs := make([]*history.Run, len(outcomes))
	for i, o := range outcomes {
		runs[i] = newRun(o.Experiment, o.Corpus, o.Seed, o.Experiment.CrossVal, o.Result)
		if settings.record {
			if err := recordRun(cmd, settings.dbPath, runs[i]); err != nil {
				return err
			}
		}
	}

	if settings.format == display.FormatJSON {
		return display.OutputJSON(cmd.OutOrStdout(), runs)
	}
	return display.OutcomesTable(cmd.OutOrStdout(), outcomes)
}
