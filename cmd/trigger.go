package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/nudge/internal/dispatch"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <action...>",
	Short: "Report a user action so the server sends a fresh nudge",
	Long: "Reports something the user did, e.g. \"Completed one stack!\". The server " +
		"answers with a new notification that appears in the inbox.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck
		if err := e.cfg.Validate(); err != nil {
			return err
		}

		details, _ := cmd.Flags().GetStringToString("detail")
		action := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		resp, err := e.client().TriggerAction(ctx, e.cfg.SessionContext(), action, details)
		if err != nil {
			return err
		}

		n := resp.Notification
		fmt.Fprintf(cmd.OutOrStdout(), "Nudge sent: %s (%s, %s)\n", n.Title, dispatch.KindLabel(n.Type), n.ActionID)
		return nil
	},
}

func init() {
	triggerCmd.Flags().StringToString("detail", nil, "Extra context sent with the action, e.g. --detail screen=settings")
}
