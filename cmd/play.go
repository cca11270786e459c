package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/app"
	"github.com/abhisek/nudge/internal/dispatch"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/store"
	"github.com/abhisek/nudge/internal/widget"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the inbox and work through cards (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay wires client, gateway and dispatcher and runs the terminal host.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := loadEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	sess := e.cfg.SessionContext()
	client := e.client()
	gw := gateway.New(client, e.cfg.Gateway(), e.logger)
	defer gw.Close()

	opts := widget.Options{Session: sess, Pusher: gw, Logger: e.logger}

	// Generation is optional; LLM usage is recorded when the local
	// database opens.
	var events store.EventRepo
	if st, err := e.openStore(cmd); err != nil {
		e.logger.Warn("llm usage will not be recorded", zap.Error(err))
	} else {
		defer st.Close()
		events = st.EventRepo()
	}
	if gen, err := e.generator(ctx, events); err != nil {
		e.logger.Info("checklist item generation disabled", zap.Error(err))
	} else {
		opts.Generator = gen
	}

	disp := dispatch.New(client, opts, e.logger)
	defer disp.Close()

	status := func() string {
		st := gw.Stats()
		s := fmt.Sprintf("%s  ↑%d", sess.UserID, st.Sent)
		if st.Failed > 0 {
			s += fmt.Sprintf(" ✗%d", st.Failed)
		}
		return s
	}

	return app.Run(ctx, app.Deps{Dispatcher: disp, Status: status})
}
