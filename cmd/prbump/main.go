package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pr-bump-notifier/internal/domain"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "prbump",
		Short:        "Notify chat channels about open pull requests waiting for review",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(notifyCmd(targetSlack, "Send the Slack table summary"))
	rootCmd.AddCommand(notifyCmd(targetGoogleChat, "Send the Google Chat card summary"))
	rootCmd.AddCommand(notifyCmd(targetDigest, "Send the short Slack digest without size, CI and review details"))
	rootCmd.AddCommand(scheduleCmd())

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(domain.ExitCode(err))
	}
}

func notifyCmd(target, short string) *cobra.Command {
	return &cobra.Command{
		Use:   target,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), target)
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the targets from SCHEDULE_TARGETS on the SCHEDULE cron expression",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.schedule(cmd.Context())
		},
	}
}
