// Package cli implements the hush command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/hush/internal/app"
	"github.com/llehouerou/hush/internal/stderr"
)

var (
	iconsFlag    string
	logLevelFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&iconsFlag, "icons", "I", "", "Icon style: nerd, unicode or none")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"nerd", "unicode", "none"}, cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("log-level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.AddCommand(playCmd, mixCmd, catalogCmd, historyCmd, favoritesCmd, loginCmd, logoutCmd)
}

var rootCmd = &cobra.Command{
	Use:           "hush",
	Short:         "Mix looping ambient sounds in your terminal",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, envOptions{audio: true})
		if err != nil {
			return err
		}
		defer e.Close()

		// The audio backend may write to fd 2 while the alternate screen is up.
		capture, err := stderr.Start(e.log, nil)
		if err != nil {
			e.log.WithError(err).Warn("stderr capture unavailable")
		}
		defer capture.Stop()

		return app.Run(ctx, app.Deps{
			Controller:   e.ctrl,
			Launcher:     e.launcher,
			Catalog:      e.catalog,
			Library:      e.store,
			Identity:     e.session,
			Desktop:      e.desktop,
			TimerMinutes: e.timerMinutes(),
			Logger:       e.log,
		})
	},
}

// Execute runs the root command and exits with a non-zero status on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hush:", err)
		os.Exit(1)
	}
}
