package commands

import (
	"database/sql"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/psam/db"
	"github.com/teranos/psam/display"
	"github.com/teranos/psam/history"
	"github.com/teranos/psam/logger"
	"github.com/teranos/psam/sym"
	"github.com/teranos/psam/version"
)

// HistoryCmd inspects recorded evaluation runs
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: sym.History + " Inspect recorded evaluation runs",
	Long: sym.History + ` history - evaluation runs recorded with --record (or database.record = true).

Runs are stored in the SQLite database at database.path (default psam.db).
In listings, a version marked "*" was recorded by a different major release
and may not be comparable.

Examples:
  psam history ls --limit 5
  psam history show 3f2a...`,
}

var historyLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryLs,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded run with its folds",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyLimit int

func init() {
	historyLsCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "Maximum runs to list")

	HistoryCmd.AddCommand(historyLsCmd)
	HistoryCmd.AddCommand(historyShowCmd)
}

func openHistory(path string) (*sql.DB, *history.Store, error) {
	log := logger.ComponentLogger("history")
	conn, err := db.OpenWithMigrations(path, log)
	if err != nil {
		return nil, nil, err
	}
	return conn, history.NewStore(conn, log), nil
}

func recordRun(cmd *cobra.Command, path string, run *history.Run) error {
	conn, store, err := openHistory(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := store.Record(cmd.Context(), run); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), pterm.Success.Sprintf("Recorded run %s", run.ID))
	return nil
}

func runHistoryLs(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	conn, store, err := openHistory(settings.dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	runs, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if settings.format == display.FormatJSON {
		return display.OutputJSON(cmd.OutOrStdout(), runs)
	}
	return display.RunsTable(cmd.OutOrStdout(), runs, version.Version)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	conn, store, err := openHistory(settings.dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if settings.format == display.FormatJSON {
		return display.OutputJSON(cmd.OutOrStdout(), run)
	}
	return display.RunDetail(cmd.OutOrStdout(), run)
}
