// Package poller drives the periodic synchronization of the view
// snapshot with the workflow service.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tustockya/transfers/internal/infrastructure/telemetry"
)

// Refresher is the idempotent reload operation both triggers invoke
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Config holds configuration for the poller
type Config struct {
	// Enabled determines if the poller is active
	Enabled bool

	// Interval between periodic refreshes
	Interval time.Duration

	// RefreshTimeout is the maximum time for one refresh cycle
	RefreshTimeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Interval:       30 * time.Second,
		RefreshTimeout: 20 * time.Second,
	}
}

// Poller invokes the engine's reload on a fixed interval and on demand
// via Wake (the foreground/visibility trigger). Both paths call the
// same idempotent operation; the engine's in-flight guard drops
// whichever trigger fires second.
type Poller struct {
	refresher Refresher
	logger    *zap.Logger
	config    Config
	wake      chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a poller over the given refresher
func New(refresher Refresher, logger *zap.Logger, config Config) *Poller {
	return &Poller{
		refresher: refresher,
		logger:    logger,
		config:    config,
		wake:      make(chan struct{}, 1),
	}
}

// Start starts the polling loop
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	if !p.config.Enabled {
		p.mu.Unlock()
		p.logger.Info("Poller is disabled")
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("Poller started", zap.Duration("interval", p.config.Interval))
	return nil
}

// Stop gracefully stops the poller
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Poller stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Poller stop timed out")
		return ctx.Err()
	}
}

// Wake requests an immediate refresh, used when the session becomes
// visible again. A wake while one is already queued is coalesced.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
		telemetry.CountDroppedRefresh()
	}
}

// IsRunning returns whether the poller is running
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	// Initial load before the first tick
	p.refresh(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Polling loop stopping")
			return
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.wake:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, p.config.RefreshTimeout)
	defer cancel()

	start := time.Now()
	err := p.refresher.RefreshAll(refreshCtx)
	elapsed := time.Since(start)

	if err != nil {
		telemetry.ObserveRefreshCycle("error", elapsed)
		p.logger.Error("Refresh cycle failed", zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	telemetry.ObserveRefreshCycle("ok", elapsed)
}
