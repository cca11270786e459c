package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development mirror server",
	Long: "Serves cards, notifications and progress over HTTP from a local SQLite " +
		"database. --seed loads *.json card documents and *.md checklists first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := loadEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		st, err := e.openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		seed, _ := cmd.Flags().GetString("seed")
		if seed == "" {
			seed = e.cfg.Server.Seed
		}
		if seed != "" {
			res, err := server.Seed(ctx, st, seed, e.logger)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			e.logger.Info("seeded cards",
				zap.Int("cards", res.Cards), zap.Int("skipped", res.Skipped))
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.Server.Addr
		}
		srv, err := server.New(e.logger, server.Config{
			Addr:  addr,
			Mode:  e.cfg.Server.Mode,
			Store: st,
		})
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("seed", "", "Directory of card files to load before serving")
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
