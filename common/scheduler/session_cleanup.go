package scheduler

import (
	"sync"
	"time"

	"github.com/hms-services/common/logger"
)

// SessionPurger drops expired sessions and reports how many were removed
type SessionPurger interface {
	PurgeExpired(now time.Time) int
}

// SessionCleanupScheduler periodically purges expired credential sessions so
// generated passwords do not linger in memory
type SessionCleanupScheduler struct {
	purger   SessionPurger
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	log      *logger.Logger
	now      func() time.Time
}

// NewSessionCleanupScheduler creates a scheduler running every interval
func NewSessionCleanupScheduler(purger SessionPurger, interval time.Duration) *SessionCleanupScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionCleanupScheduler{
		purger:   purger,
		interval: interval,
		stopChan: make(chan struct{}),
		log:      logger.Default().With("component", "scheduler"),
		now:      time.Now,
	}
}

// Start runs one purge immediately, then one per tick until Stop
func (s *SessionCleanupScheduler) Start() {
	s.log.Info("Session cleanup job started", "interval", s.interval.String())

	s.RunOnce()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.RunOnce()
			case <-s.stopChan:
				ticker.Stop()
				s.log.Info("Session cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the scheduler. Safe to call more than once.
func (s *SessionCleanupScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// RunOnce purges expired sessions and returns the count
func (s *SessionCleanupScheduler) RunOnce() int {
	n := s.purger.PurgeExpired(s.now())
	if n > 0 {
		s.log.Info("Expired credential sessions purged", "count", n)
	}
	return n
}
