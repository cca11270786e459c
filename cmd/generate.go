package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/widget"
)

var generateCmd = &cobra.Command{
	Use:   "generate <checklist-id> <prompt>",
	Short: "Preview one generated item for a checklist",
	Long: "Asks the configured language model for one more item for the checklist " +
		"and prints it. The checklist itself is not changed.",
	Args: cobra.MinimumNArgs(2),
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

		doc, err := e.client().FetchCardDocument(ctx, e.cfg.SessionContext(), args[0])
		if err != nil {
			return fmt.Errorf("fetch checklist: %w", err)
		}
		if doc.Kind != card.KindChecklist {
			return fmt.Errorf("%s is a %s, not a checklist", doc.ID, doc.Kind)
		}

		st, err := e.openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		gen, err := e.generator(ctx, st.EventRepo())
		if err != nil {
			return err
		}

		req := widget.ItemRequest{ChecklistTitle: doc.Title, Prompt: strings.Join(args[1:], " ")}
		for _, t := range doc.Tasks {
			req.Existing = append(req.Existing, t.Description)
		}
		item, err := gen.GenerateItem(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Item:      %s\n", item.Description)
		if item.EstimatedTime != "" {
			fmt.Fprintf(out, "Time:      %s\n", item.EstimatedTime)
		}
		if item.Rationale != "" {
			fmt.Fprintf(out, "Why:       %s\n", item.Rationale)
		}
		if item.Statistic != "" {
			fmt.Fprintf(out, "Evidence:  %s\n", item.Statistic)
		}
		return nil
	},
}
