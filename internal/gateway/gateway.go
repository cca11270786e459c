// Package gateway mirrors widget progress to the remote API in the
// background. Local state never waits on it and never learns its outcome.
package gateway

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/nudge/internal/session"
)

// Remote accepts progress snapshots.
type Remote interface {
	PushProgress(ctx context.Context, p Payload) error
}

// Config tunes the background sender.
type Config struct {
	// Rate limits sends per second. Zero means unlimited.
	Rate  float64
	Burst int

	// RequestTimeout bounds a single send.
	RequestTimeout time.Duration

	// DrainTimeout bounds how long Close waits for pending sends.
	DrainTimeout time.Duration
}

// DefaultConfig returns the sender defaults.
func DefaultConfig() Config {
	return Config{
		Rate:           5,
		Burst:          5,
		RequestTimeout: 10 * time.Second,
		DrainTimeout:   3 * time.Second,
	}
}

// Stats counts what happened to pushed payloads.
type Stats struct {
	Pushed    int
	Sent      int
	Failed    int
	Coalesced int
	Dropped   int
}

// Gateway queues payloads and sends them from a single worker. Payloads for
// the same interaction coalesce: only the newest snapshot is sent.
type Gateway struct {
	remote  Remote
	logger  *zap.Logger
	limiter *rate.Limiter
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	pending  map[session.Key]Payload
	order    []session.Key
	inflight bool
	closed   bool
	changed  chan struct{}
	stats    Stats

	wake chan struct{}
	done chan struct{}
}

// New starts a gateway sending to remote.
func New(remote Remote, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Gateway{
		remote:  remote,
		logger:  logger.Named("gateway"),
		limiter: rate.NewLimiter(limit, burst),
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[session.Key]Payload),
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go g.run()
	return g
}

// Push queues p for sending and returns immediately.
func (g *Gateway) Push(p Payload) {
	g.mu.Lock()
	if g.closed {
		g.stats.Dropped++
		g.mu.Unlock()
		g.logger.Warn("push after close dropped",
			zap.String("interaction_id", p.InteractionID))
		return
	}

	g.stats.Pushed++
	key := p.Key()
	if _, ok := g.pending[key]; ok {
		g.stats.Coalesced++
	} else {
		g.order = append(g.order, key)
	}
	g.pending[key] = p
	g.notifyLocked()
	g.mu.Unlock()

	g.signal()
}

// Flush blocks until every queued payload has been attempted or ctx ends.
func (g *Gateway) Flush(ctx context.Context) error {
	for {
		g.mu.Lock()
		idle := len(g.pending) == 0 && !g.inflight
		changed := g.changed
		g.mu.Unlock()

		if idle {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stats returns a copy of the counters.
func (g *Gateway) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Close stops accepting payloads, gives pending ones DrainTimeout to go out,
// and stops the worker.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.notifyLocked()
	g.mu.Unlock()
	g.signal()

	if g.cfg.DrainTimeout > 0 {
		select {
		case <-g.done:
		case <-time.After(g.cfg.DrainTimeout):
		}
	}
	g.cancel()
	<-g.done
}

func (g *Gateway) signal() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// notifyLocked wakes Flush callers. g.mu must be held.
func (g *Gateway) notifyLocked() {
	close(g.changed)
	g.changed = make(chan struct{})
}

func (g *Gateway) run() {
	defer close(g.done)
	for {
		p, ok := g.next()
		if !ok {
			return
		}
		err := g.send(p)

		g.mu.Lock()
		g.inflight = false
		if err != nil {
			g.stats.Failed++
		} else {
			g.stats.Sent++
		}
		g.notifyLocked()
		g.mu.Unlock()
	}
}

// next waits for the oldest pending payload. It returns false once the
// gateway is closed and nothing is left.
func (g *Gateway) next() (Payload, bool) {
	for {
		g.mu.Lock()
		if len(g.order) > 0 {
			key := g.order[0]
			g.order = g.order[1:]
			p := g.pending[key]
			delete(g.pending, key)
			g.inflight = true
			g.mu.Unlock()
			return p, true
		}
		closed := g.closed
		g.mu.Unlock()

		if closed {
			return Payload{}, false
		}
		select {
		case <-g.wake:
		case <-g.ctx.Done():
			return Payload{}, false
		}
	}
}

func (g *Gateway) send(p Payload) error {
	fields := []zap.Field{
		zap.String("interaction_id", p.InteractionID),
		zap.String("kind", string(p.Kind)),
		zap.Bool("completed", p.Completed),
	}

	if err := g.limiter.Wait(g.ctx); err != nil {
		g.logger.Warn("progress sync skipped", append(fields, zap.Error(err))...)
		return err
	}

	ctx := g.ctx
	if g.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := g.remote.PushProgress(ctx, p); err != nil {
		g.logger.Warn("progress sync failed",
			append(fields, zap.Duration("latency", time.Since(start)), zap.Error(err))...)
		return err
	}
	g.logger.Debug("progress synced",
		append(fields, zap.Duration("latency", time.Since(start)))...)
	return nil
}
