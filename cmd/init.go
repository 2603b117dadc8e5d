package cmd

import (
	"fmt"
	"log"

	"github.com/josephlewis42/guish/core/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml and turn on the event log.",
	Long: `Write a commented config.yaml into the --config directory. Prompt, history
size, colors and the interrupt notice can be tuned there.

Sessions started from an initialized directory record their events to
events.log, which 'guish events report' summarizes. An existing config.yaml is
never overwritten.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Initialize(cfgPath, log.New(cmd.ErrOrStderr(), "", 0))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "guish is ready: history keeps %d commands, events go to %s\n",
			cfg.HistorySize, config.AppLogName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
