package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/josephlewis42/guish/core"
	"github.com/josephlewis42/guish/core/config"
	"github.com/josephlewis42/guish/core/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	cfgPath string
	noColor bool
)

func loadConfig() (*config.Configuration, error) {
	return config.LoadOrDefault(cfgPath)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "guish",
	Short: "A small interactive shell with numbered history recall",
	Long: `guish reads commands, runs them as builtins or programs found on PATH,
and keeps a short history that can be re-run with 'r [n]'.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLogger := log.New(cmd.ErrOrStderr(), "[guish] ", 0)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if noColor {
			cfg.Color = core.ColorNever
		}

		events, logCloser, err := openEventLog(cfg)
		if err != nil {
			return err
		}
		defer logCloser.Close()

		input, closer, err := core.NewStdinSource(os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		defer closer.Close()

		tracker := core.NewInterruptTracker(os.Stdout, cfg.InterruptNotice)
		shell, err := core.NewShell(cfg,
			core.WithInput(input),
			core.WithInterruptTracker(tracker),
			core.WithEventLogger(events.NewSession()),
			core.WithLogger(appLogger),
		)
		if err != nil {
			return err
		}

		return runShell(cmd.Context(), shell, tracker)
	},
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openEventLog opens the configured event log, or a logger discarding
// everything if the log is turned off.
func openEventLog(cfg *config.Configuration) (*logger.Logger, io.Closer, error) {
	if !cfg.EventLog {
		return logger.NewNopLogger(), nopCloser{}, nil
	}

	logFd, err := cfg.OpenAppLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJsonLinesLogRecorder(logFd), logFd, nil
}

// runShell runs the shell loop alongside the SIGINT watcher. The handler is
// installed before the loop starts and removed once it returns.
func runShell(ctx context.Context, shell *core.Shell, tracker *core.InterruptTracker) error {
	sigs, stop := core.NotifyInterrupts()
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return tracker.Watch(ctx, sigs)
	})

	group.Go(func() error {
		defer cancel()
		return shell.Run()
	})

	return group.Wait()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "never color diagnostics")
}
