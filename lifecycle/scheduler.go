// Package lifecycle keeps a session alive: it refreshes once at start-up and
// then on a fixed interval until stopped.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-admin-session/authapi"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/rs/zerolog"
)

const DefaultInterval = 14 * time.Minute

// Refresher refreshes the session and ends it when the refresh fails.
// *session.Manager implements it.
type Refresher interface {
	Refresh(ctx context.Context) (*authapi.TokenPair, error)
}

// Scheduler keeps a session alive: one refresh at start, then one per interval.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Scheduler)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New returns a scheduler refreshing every interval. A non-positive interval
// means DefaultInterval.
func New(refresher Refresher, interval time.Duration, options ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{
		refresher: refresher,
		interval:  interval,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Start performs the boot refresh. If it fails the refresher has already ended
// the session, the error is returned and no timer is started. Otherwise a
// goroutine refreshes every interval until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "lifecycle.Start: already started")
	}

	if _, err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Info().Err(err).Msg("boot refresh failed")
		return errors.Wrapf(err, "lifecycle.Start")
	}
	s.logger.Debug().Dur("interval", s.interval).Msg("session refreshed at boot")

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.done)
	return nil
}

// Stop cancels the timer and waits for an in-progress tick to finish. It is
// safe to call more than once, and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Run starts the scheduler, blocks until ctx is done and then stops it.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Done is closed when the refresh loop exits, whether stopped or because a
// refresh failed. It is nil before Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.refresher.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				// The session is over; there is nothing left to keep alive.
				s.logger.Warn().Err(err).Msg("scheduled refresh failed, stopping")
				return
			}
			s.logger.Debug().Msg("scheduled refresh")
		}
	}
}
