package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/josephlewis42/guish/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var reportSessions []string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect what past guish sessions ran.",
	Long: `Every session started from an initialized config directory appends its
commands, recalls, failed launches and interrupts to events.log there.`,
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Summarize the event log as YAML.",
	Long: `Summarize the event log: programs launched and the paths they resolved
to, builtins run, history recalls, non-zero exits and Ctrl+C counts.

Use --session to restrict the summary to particular session IDs.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := cfg.ReadAppLog()
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no event log in %q, run 'guish init --config %s' to start recording", cfgPath, cfgPath)
		}
		if err != nil {
			return err
		}
		defer fd.Close()

		keep := make(map[string]bool)
		for _, id := range reportSessions {
			keep[id] = true
		}

		report := logger.NewReport()
		err = logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			if len(keep) == 0 || keep[le.SessionID] {
				report.Update(le)
			}
		})
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# guish: %d events across %d sessions\n", report.LogEntries, report.Sessions.Len())
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)

	reportCommand.Flags().StringSliceVar(&reportSessions, "session", nil, "only count events from these session IDs")
}
