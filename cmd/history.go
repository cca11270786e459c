package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nudge/internal/dispatch"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored progress for the configured user",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck
		if err := e.cfg.Validate(); err != nil {
			return err
		}

		recs, err := e.client().FetchPriorProgress(cmd.Context(), e.cfg.SessionContext())
		if err != nil {
			return fmt.Errorf("fetch progress: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No progress recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %-10s  %-28s  %-4s  %s\n", "Interaction", "Kind", "Title", "Done", "Updated")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, r := range recs {
			done := " "
			if r.Completed {
				done = "✓"
			}
			fmt.Fprintf(out, "%-24s  %-10s  %-28s  %-4s  %s\n",
				truncate(r.InteractionID, 24),
				dispatch.KindLabel(r.Kind),
				truncate(r.Title, 28),
				done,
				r.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
