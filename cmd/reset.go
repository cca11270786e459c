package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/widget"
)

var resetCmd = &cobra.Command{
	Use:   "reset <interaction-id>",
	Short: "Clear stored progress for one interaction",
	Long: "Pushes an empty progress snapshot. Without --kind the card is fetched " +
		"to find its type.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := loadEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck
		if err := e.cfg.Validate(); err != nil {
			return err
		}

		id := args[0]
		sess := e.cfg.SessionContext()
		client := e.client()

		kindFlag, _ := cmd.Flags().GetString("kind")
		kind := card.Kind(kindFlag)
		var items []string
		if kind == "" {
			doc, err := client.FetchCardDocument(ctx, sess, id)
			if err != nil {
				return fmt.Errorf("look up card kind: %w", err)
			}
			kind, items = doc.Kind, doc.ItemIDs()
		}
		if !kind.Valid() {
			return fmt.Errorf("unknown kind %q (want flashcards, checklist or quiz)", kind)
		}

		p, err := gateway.NewPayload(sess, id, kind, ledger.New(widget.ModeFor(kind), items).Snapshot())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.PushProgress(ctx, p); err != nil {
			return fmt.Errorf("push reset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s (%s).\n", id, kind)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("kind", "", "Card kind: flashcards, checklist or quiz")
}
