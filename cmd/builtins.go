package cmd

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/guish/core"
	"github.com/josephlewis42/guish/core/shell"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	RunE: func(cmd *cobra.Command, args []string) error {
		builtins := []string{shell.RecallCommand}

		for name := range core.AllBuiltins {
			builtins = append(builtins, name)
		}

		sort.Strings(builtins)

		for _, v := range builtins {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
