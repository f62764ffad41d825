package housekeeping

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

const (
	defaultSweepInterval = time.Minute
	defaultSweepGrace    = 5 * time.Minute

	logMsgTokensSwept     = "housekeeping: token events swept"
	logMsgTokenSweepError = "housekeeping: sweeping token events failed"
	logAttrPruned         = "pruned"
	logAttrCutoff         = "cutoff"
	logAttrError          = "error"
)

var ErrInvalidInterval = errors.New("interval must be positive")

// Pruner deletes old events, both eventstore engines implement it.
type Pruner interface {
	Prune(ctx context.Context, filter eventstore.Filter, occurredBefore time.Time) (int64, error)
}

// TokenSweeper periodically prunes token events which expired more than the grace period ago.
// The grace period keeps tokens around long enough for retried redemptions to be recognized as idempotent.
type TokenSweeper struct {
	store    Pruner
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	logger   shell.Logger
}

// SweeperOption configures a TokenSweeper.
type SweeperOption func(*TokenSweeper) error

// WithSweepInterval sets how often the sweeper runs.
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(s *TokenSweeper) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}

		s.interval = interval

		return nil
	}
}

// WithSweepGrace sets how long after their expiry token events are kept.
func WithSweepGrace(grace time.Duration) SweeperOption {
	return func(s *TokenSweeper) error {
		s.grace = max(grace, 0)
		return nil
	}
}

// WithSweeperClock replaces time.Now, for tests.
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(s *TokenSweeper) error {
		s.now = now
		return nil
	}
}

// WithSweeperLogger sets a logger for sweep results and failures.
func WithSweeperLogger(logger shell.Logger) SweeperOption {
	return func(s *TokenSweeper) error {
		s.logger = logger
		return nil
	}
}

func NewTokenSweeper(store Pruner, opts ...SweeperOption) (*TokenSweeper, error) {
	s := &TokenSweeper{
		store:    store,
		interval: defaultSweepInterval,
		grace:    defaultSweepGrace,
		now:      time.Now,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SweepOnce prunes all token events issued before now - token lifetime - grace.
func (s *TokenSweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-core.TokenLifetime - s.grace)

	pruned, err := s.store.Prune(ctx, BuildTokenEventFilter(), cutoff)
	if err != nil {
		return 0, err
	}

	if s.logger != nil && pruned > 0 {
		s.logger.Info(logMsgTokensSwept, logAttrPruned, pruned, logAttrCutoff, cutoff.Format(time.RFC3339))
	}

	return pruned, nil
}

// Run sweeps on every tick until ctx is canceled. Failed sweeps are logged and retried on the next tick.
func (s *TokenSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && s.logger != nil {
				s.logger.Warn(logMsgTokenSweepError, logAttrError, err.Error())
			}
		}
	}
}

// BuildTokenEventFilter matches the issued events of both token kinds.
func BuildTokenEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CheckoutTokenIssuedEventType,
			core.CheckinTokenIssuedEventType,
		).
		Finalize()
}
