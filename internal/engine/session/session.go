// Package session manages query-driven catalog searches: debouncing
// keystrokes, cancelling superseded requests, and discarding stale responses
// so the visible result set always reflects the most recent query.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/engine"
)

// Searcher is the remote catalog query capability the session drives.
// engine.Remote satisfies it.
type Searcher interface {
	Query(ctx context.Context, spec engine.QuerySpec, page, pageSize int) (*engine.QueryPage, error)
}

// State is the session's visible lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateInFlight   State = "in_flight"
	StateSettled    State = "settled"
	StateClosed     State = "closed"
)

// Config tunes session behavior.
type Config struct {
	// Debounce is how long after the last keystroke a request fires.
	Debounce time.Duration
	// MinQueryLength below which no request is made; the session surfaces
	// an empty result set immediately.
	MinQueryLength int
	PageSize       int
}

// DefaultConfig returns the tuning used by the UI.
func DefaultConfig() Config {
	return Config{
		Debounce:       300 * time.Millisecond,
		MinQueryLength: 2,
		PageSize:       25,
	}
}

// Snapshot is the session's externally visible result state.
type Snapshot struct {
	State   State
	Query   string
	Items   []*domain.CatalogItem
	Total   int
	HasMore bool
	Err     error
}

// Session owns one live search: the debounce timer, the identity of the
// in-flight request, and its cancellation.
//
// Request recency, not response arrival order, decides what is visible:
// every dispatched request gets a monotonically increasing sequence number,
// and a response is applied only if its sequence still matches the session's
// current one. The check happens at apply time because a cancelled request
// may still deliver a response.
type Session struct {
	searcher Searcher
	cfg      Config
	logger   *slog.Logger
	notify   func(Snapshot)

	mu     sync.Mutex
	state  State
	query  string
	scope  *domain.MediaType
	sortBy string

	seq      uint64
	timer    *time.Timer
	cancelFn context.CancelFunc

	items   []*domain.CatalogItem
	total   int
	page    int
	hasMore bool
	lastErr error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithNotify registers a callback invoked (outside the lock) whenever the
// visible result state changes.
func WithNotify(fn func(Snapshot)) Option {
	return func(s *Session) { s.notify = fn }
}

// WithScope restricts the session to one media type.
func WithScope(media domain.MediaType) Option {
	return func(s *Session) { s.scope = &media }
}

// WithSort sets the result sort key passed to the remote.
func WithSort(sortBy string) Option {
	return func(s *Session) { s.sortBy = sortBy }
}

// New creates a search session.
func New(searcher Searcher, cfg Config, opts ...Option) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	s := &Session{
		searcher: searcher,
		cfg:      cfg,
		logger:   slog.New(slog.DiscardHandler),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuery feeds one keystroke's worth of query text. Each call restarts the
// debounce timer; only the last value within the window reaches the remote.
// Queries below the minimum length clear results immediately without a
// remote round trip.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.query = query
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if utf8.RuneCountInString(query) < s.cfg.MinQueryLength {
		// Invalidate anything in flight and surface emptiness now.
		s.seq++
		s.cancelInFlightLocked()
		s.items = nil
		s.total = 0
		s.page = 0
		s.hasMore = false
		s.lastErr = nil
		s.state = StateIdle
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		return
	}

	s.state = StateDebouncing
	s.timer = time.AfterFunc(s.cfg.Debounce, func() {
		s.mu.Lock()
		if s.state == StateClosed || s.query != query {
			s.mu.Unlock()
			return
		}
		s.dispatchLocked(0, true)
		s.mu.Unlock()
	})
	s.mu.Unlock()
}

// LoadMore extends the current result set by one page. No-op unless the
// session has settled with more results available.
func (s *Session) LoadMore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSettled || !s.hasMore {
		return
	}
	s.dispatchLocked(s.page+1, false)
}

// Results returns the current visible state.
func (s *Session) Results() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close tears the session down, cancelling any in-flight request. Responses
// arriving afterwards are discarded by the sequence check.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.cancelInFlightLocked()
	s.state = StateClosed
}

// dispatchLocked starts request seq+1. Caller holds the lock.
func (s *Session) dispatchLocked(page int, reset bool) {
	s.seq++
	seq := s.seq

	// Best-effort cancel of the superseded request; its response, if it
	// arrives anyway, fails the sequence check on apply.
	s.cancelInFlightLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFn = cancel
	s.state = StateInFlight

	spec := engine.QuerySpec{Text: s.query, MediaType: s.scope, SortBy: s.sortBy}
	s.logger.Debug("search dispatched", "seq", seq, "query", spec.Text, "page", page)

	go s.run(ctx, seq, spec, page, reset)
}

func (s *Session) run(ctx context.Context, seq uint64, spec engine.QuerySpec, page int, reset bool) {
	result, err := s.searcher.Query(ctx, spec, page, s.cfg.PageSize)

	s.mu.Lock()
	if seq != s.seq {
		// Stale: a newer request owns the session now. Discarded
		// unconditionally, even if this response was "successful".
		s.mu.Unlock()
		s.logger.Debug("stale search response discarded", "seq", seq, "current", s.seq)
		return
	}
	s.cancelFn = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		// Keep the last good result set visible; no flicker to empty.
		s.lastErr = err
		s.state = StateSettled
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.Warn("search failed", "seq", seq, "error", err)
		s.emit(snap)
		return
	}

	if reset {
		s.items = result.Items
	} else {
		s.items = append(s.items, result.Items...)
	}
	s.page = page
	s.total = result.TotalCount
	s.hasMore = result.HasMore(page, s.cfg.PageSize)
	s.lastErr = nil
	s.state = StateSettled
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)
}

func (s *Session) cancelInFlightLocked() {
	if s.cancelFn != nil {
		s.cancelFn()
		s.cancelFn = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	items := make([]*domain.CatalogItem, len(s.items))
	copy(items, s.items)
	return Snapshot{
		State:   s.state,
		Query:   s.query,
		Items:   items,
		Total:   s.total,
		HasMore: s.hasMore,
		Err:     s.lastErr,
	}
}

func (s *Session) emit(snap Snapshot) {
	if s.notify != nil {
		s.notify(snap)
	}
}
