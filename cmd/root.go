package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Interactive wellbeing cards in the terminal",
	Long: "Nudge shows flashcard decks, checklists and quizzes from your notifications " +
		"and mirrors your progress to the server as you go.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to nudge.yaml (default ./nudge.yaml or $XDG_CONFIG_HOME/nudge/nudge.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides server.db and NUDGE_DB)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
