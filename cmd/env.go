package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/api"
	"github.com/abhisek/nudge/internal/config"
	"github.com/abhisek/nudge/internal/itemgen"
	"github.com/abhisek/nudge/internal/llm"
	"github.com/abhisek/nudge/internal/logging"
	"github.com/abhisek/nudge/internal/store"
)

// errNoLLM means no provider is configured and no API key was found.
var errNoLLM = errors.New("no llm provider configured; set llm.provider or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")

// env is what every command starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

// loadEnv reads configuration and builds the logger. The terminal host logs
// to a file so nothing is written over the screen.
func loadEnv(cmd *cobra.Command, logToFile bool) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	lc := logging.Config{
		Level:    cfg.Logger.Level,
		Mode:     cfg.Logger.Mode,
		Encoding: cfg.Logger.Encoding,
		File:     cfg.Logger.File,
	}
	if logToFile && lc.File == "" {
		lc.File = logging.DefaultFile()
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// client builds the API client from the api section.
func (e *env) client() *api.Client {
	c := e.cfg.API
	return api.NewClient(c.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
		api.WithLogger(e.logger),
		api.WithCardCache(c.CardCacheSize, c.CardCacheTTL),
		api.WithBreaker(c.BreakerFailures, c.BreakerTimeout),
	)
}

// dbPath resolves the database: --db, then server.db, then the default.
func (e *env) dbPath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = e.cfg.Server.DB
	}
	if p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func (e *env) openStore(cmd *cobra.Command) (*store.Store, error) {
	p, err := e.dbPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// generator builds the checklist item generator. events may be nil.
func (e *env) generator(ctx context.Context, events store.EventRepo) (*itemgen.Generator, error) {
	cfg := e.cfg.LLM
	if cfg.Provider == "" {
		var ok bool
		if cfg, ok = cfg.Discover(); !ok {
			return nil, errNoLLM
		}
	}
	provider, err := llm.NewProvider(ctx, cfg, e.logger, events)
	if err != nil {
		return nil, err
	}
	gc := itemgen.DefaultConfig()
	if cfg.Timeout > 0 {
		gc.Timeout = cfg.Timeout
	}
	return itemgen.New(provider, gc), nil
}
