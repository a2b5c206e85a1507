// Package dashboard holds the statistics snapshot shown on the admin and resident
// dashboards. The snapshot is replaced wholesale or not at all.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/notify"
)

// Source reads statistics from the remote service
type Source interface {
	OverviewStatistics(ctx context.Context) (models.StatisticsSnapshot, error)
	ResidentStatistics(ctx context.Context) (models.StatisticsSnapshot, error)
}

// Scope selects which statistics a dashboard shows
type Scope int

// Dashboard scopes
const (
	Overview Scope = iota
	Resident
)

func (s Scope) String() string {
	if s == Resident {
		return "resident"
	}
	return "overview"
}

// Stats is the dashboard statistics holder
type Stats struct {
	src  Source
	sink notify.Sink
	log  *zap.SugaredLogger

	mu        sync.Mutex
	snapshot  models.StatisticsSnapshot
	have      bool
	fetchedAt time.Time
	err       error
	issued    uint64
	closed    bool
}

// New creates an empty statistics holder
func New(src Source, sink notify.Sink, log *zap.SugaredLogger) *Stats {
	if sink == nil {
		sink = notify.Discard
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Stats{src: src, sink: sink, log: log}
}

// LoadOverview reads the admin overview statistics
func (s *Stats) LoadOverview(ctx context.Context) error {
	return s.load(ctx, Overview)
}

// LoadResident reads the logged in resident's statistics
func (s *Stats) LoadResident(ctx context.Context) error {
	return s.load(ctx, Resident)
}

// Load reads the statistics for scope
func (s *Stats) Load(ctx context.Context, scope Scope) error {
	return s.load(ctx, scope)
}

func (s *Stats) load(ctx context.Context, scope Scope) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	var (
		snap models.StatisticsSnapshot
		err  error
	)
	if scope == Resident {
		snap, err = s.src.ResidentStatistics(ctx)
	} else {
		snap, err = s.src.OverviewStatistics(ctx)
	}

	s.mu.Lock()
	if s.closed || seq != s.issued {
		s.mu.Unlock()
		s.log.Debugw("discarding stale statistics", "scope", scope.String(), "seq", seq)
		return nil
	}
	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.log.Errorw("failed to load statistics", "scope", scope.String(), "error", err)
		s.sink.Notify(notify.Error, "Failed to load statistics", err.Error())
		return err
	}
	s.snapshot = snap
	s.have = true
	s.err = nil
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Close detaches the holder from its view. Loads still in flight are dropped
// when they return and later loads do nothing.
func (s *Stats) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Snapshot returns the last good snapshot and whether there is one
func (s *Stats) Snapshot() (models.StatisticsSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.have
}

// Err returns the error of the last failed load, cleared on success
func (s *Stats) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// FetchedAt returns when the snapshot was last replaced
func (s *Stats) FetchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}
