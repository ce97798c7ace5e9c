// Package engine owns the refresh cadence of the console: it polls the
// container runtime for a snapshot, runs the grouping computation, and
// hands the ordered group list to its consumers. The computation
// itself is stateless; the engine only keeps the most recently
// published result and the bookkeeping needed to discard results from
// superseded snapshots.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargobay/cargobay/internal/config"
	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/grouping"
)

type snapshotSource interface {
	List(ctx context.Context) ([]domain.ContainerRecord, error)
}

// Consumer receives each newly published group list. Implementations
// must not retain the slice past the call; the next refresh replaces it.
type Consumer interface {
	ConsumeGroups(groups []domain.ContainerGroup)
}

type Engine struct {
	logger    zerolog.Logger
	cfg       *config.AppConfig
	source    snapshotSource
	consumers []Consumer

	mu        sync.Mutex
	seq       uint64
	published uint64
	latest    []domain.ContainerGroup
}

func New(source snapshotSource, cfg *config.AppConfig, logger zerolog.Logger, consumers ...Consumer) *Engine {
	return &Engine{
		logger:    logger,
		cfg:       cfg,
		source:    source,
		consumers: consumers,
	}
}

// Run refreshes once immediately, then on every poll tick until the
// context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info().Int("poll_interval", e.cfg.PollInterval).Msg("Starting refresh loop")

	if _, err := e.Refresh(ctx); err != nil {
		e.logger.Error().Err(err).Msg("Initial refresh failed")
	}

	ticker := time.NewTicker(time.Duration(e.cfg.PollInterval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.logger.Debug().Msg("Refresh tick")
			if _, err := e.Refresh(ctx); err != nil {
				e.logger.Error().Err(err).Msg("Refresh failed")
			}
		case <-ctx.Done():
			e.logger.Info().Msg("Refresh loop shutting down")
			return ctx.Err()
		}
	}
}

// Refresh takes one snapshot, groups it, and publishes the result
// unless a later snapshot already published in the meantime.
func (e *Engine) Refresh(ctx context.Context) ([]domain.ContainerGroup, error) {
	seq := e.nextSeq()

	records, err := e.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take container snapshot: %w", err)
	}

	groups := grouping.Build(records)
	if !e.publish(seq, groups) {
		e.logger.Debug().Uint64("seq", seq).Msg("Discarding superseded snapshot")
	}
	return groups, nil
}

// Groups returns the most recently published group list.
func (e *Engine) Groups() []domain.ContainerGroup {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

func (e *Engine) nextSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	return e.seq
}

// publish installs the groups computed from snapshot seq, unless a
// later snapshot has already published. Returns whether it took.
func (e *Engine) publish(seq uint64, groups []domain.ContainerGroup) bool {
	e.mu.Lock()
	if seq <= e.published {
		e.mu.Unlock()
		return false
	}
	e.published = seq
	e.latest = groups
	consumers := e.consumers
	e.mu.Unlock()

	for _, c := range consumers {
		c.ConsumeGroups(groups)
	}
	return true
}
