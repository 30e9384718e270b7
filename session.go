// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sift

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"weak"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/engine"
	"github.com/poiesic/sift/ingestion"
	"github.com/poiesic/sift/matcher"
	"github.com/poiesic/sift/pool"
	"github.com/poiesic/sift/storage"
	"github.com/poiesic/sift/storage/badger"
)

// Session ties an item pool, a worker pool and a matcher together and keeps
// the visible result set for the current query.
type Session struct {
	workers *ants.Pool
	items   *pool.ItemPool
	matcher *matcher.Matcher
	wake    chan<- struct{}
	logger  *slog.Logger

	history     storage.HistoryRepository
	ownsHistory bool

	mu        sync.Mutex
	control   *matcher.Control
	replace   bool // the running pass re-matches everything
	harvested bool
	query     string
	disabled  bool
	selection []matcher.MatchedItem
	closed    bool
}

// Progress reports how far the current pass has come.
type Progress struct {
	Processed int
	Matched   int
	Total     int
	Running   bool
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	workers      int
	headerLines  int
	caseMatching core.CaseMatching
	tiebreak     []core.RankCriteria
	exact        bool
	regex        bool
	algorithm    engine.Algorithm
	history      storage.HistoryRepository
	historyDir   string
	wake         chan<- struct{}
	logger       *slog.Logger
}

// WithWorkers sets the size of the matching worker pool.
// Default is runtime.NumCPU().
func WithWorkers(n int) SessionOption {
	return func(o *sessionOptions) {
		o.workers = max(n, 1)
	}
}

// WithHeaderLines pins the first n items as a header.
func WithHeaderLines(n int) SessionOption {
	return func(o *sessionOptions) {
		o.headerLines = max(n, 0)
	}
}

// WithCaseMatching sets the case policy. Default is core.CaseSmart.
func WithCaseMatching(cm core.CaseMatching) SessionOption {
	return func(o *sessionOptions) {
		o.caseMatching = cm
	}
}

// WithTiebreak sets the rank criteria. Default is score, begin, end.
func WithTiebreak(criteria ...core.RankCriteria) SessionOption {
	return func(o *sessionOptions) {
		o.tiebreak = criteria
	}
}

// WithExact makes plain query terms exact.
func WithExact(exact bool) SessionOption {
	return func(o *sessionOptions) {
		o.exact = exact
	}
}

// WithRegex treats the query as a single regular expression.
func WithRegex(regex bool) SessionOption {
	return func(o *sessionOptions) {
		o.regex = regex
	}
}

// WithAlgorithm selects the fuzzy algorithm.
func WithAlgorithm(algorithm engine.Algorithm) SessionOption {
	return func(o *sessionOptions) {
		o.algorithm = algorithm
	}
}

// WithHistory records queries in repo. The caller keeps ownership of repo.
func WithHistory(repo storage.HistoryRepository) SessionOption {
	return func(o *sessionOptions) {
		o.history = repo
	}
}

// WithHistoryDir opens a history database in dir, owned by the session.
func WithHistoryDir(dir string) SessionOption {
	return func(o *sessionOptions) {
		o.historyDir = dir
	}
}

// WithWake offers a value on ch whenever a pass ends. Sends never block.
func WithWake(ch chan<- struct{}) SessionOption {
	return func(o *sessionOptions) {
		o.wake = ch
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// antsLoggerAdapter adapts slog.Logger to the ants.Logger interface.
type antsLoggerAdapter struct {
	logger *slog.Logger
}

var _ ants.Logger = (*antsLoggerAdapter)(nil)

func (al *antsLoggerAdapter) Printf(format string, args ...any) {
	al.logger.Warn(fmt.Sprintf(format, args...))
}

// NewSession creates a Session. Close it when done.
func NewSession(opts ...SessionOption) (*Session, error) {
	options := &sessionOptions{
		workers:      runtime.NumCPU(),
		caseMatching: core.CaseSmart,
		algorithm:    engine.AlgoFzfV2,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	rankBuilder := core.DefaultRankBuilder()
	if len(options.tiebreak) > 0 {
		rankBuilder = core.NewRankBuilder(options.tiebreak)
	}

	factory, err := engine.NewFactory(engine.Config{
		Exact:       options.exact,
		Regex:       options.regex,
		Algorithm:   options.algorithm,
		RankBuilder: rankBuilder,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	workers, err := ants.NewPool(options.workers,
		ants.WithLogger(&antsLoggerAdapter{logger: logger}),
		ants.WithPanicHandler(func(p any) {
			logger.Error("match worker panicked", "panic", p)
		}),
	)
	if err != nil {
		return nil, err
	}

	s := &Session{
		workers: workers,
		items:   pool.NewItemPool(pool.WithLinesToReserve(options.headerLines), pool.WithLogger(logger)),
		matcher: matcher.New(factory, matcher.WithCaseMatching(options.caseMatching), matcher.WithLogger(logger)),
		wake:    options.wake,
		logger:  logger,
		history: options.history,
	}

	if options.historyDir != "" && s.history == nil {
		repo, err := badger.OpenHistory(options.historyDir, logger)
		if err != nil {
			workers.Release()
			return nil, err
		}
		s.history = repo
		s.ownsHistory = true
	}

	return s, nil
}

// Close stops the running pass and releases the worker pool and, if the
// session opened it, the history database.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.control != nil {
		s.control.Close()
		s.control = nil
	}
	s.workers.Release()

	if s.ownsHistory {
		if err := s.history.Close(); err != nil {
			s.logger.Error("error closing history", "err", err)
			return err
		}
	}
	return nil
}

// Append adds items to the pool and returns the new pool length.
// Running passes do not see them; call Refresh or Query.
func (s *Session) Append(items []core.Item) int {
	return s.items.Append(items)
}

// Ingest reads r with the given options and appends the resulting items.
func (s *Session) Ingest(ctx context.Context, r io.Reader, opts ingestion.Options) (int, error) {
	pipeline, err := ingestion.NewPipeline(s.items, opts, ingestion.WithLogger(s.logger))
	if err != nil {
		return 0, err
	}
	return pipeline.Run(ctx, r)
}

// Query starts matching query over the whole pool. The results of the
// previous query stay visible until the new pass completes.
func (s *Session) Query(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.restartLocked(query, s.disabled)
	return nil
}

// Disable switches between ranked matching and listing every item unranked.
func (s *Session) Disable(disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if disabled == s.disabled && s.control != nil {
		return nil
	}
	s.restartLocked(s.query, disabled)
	return nil
}

func (s *Session) restartLocked(query string, disabled bool) {
	if s.control != nil {
		s.control.Kill()
		s.harvestLocked()
	}

	s.query = query
	s.disabled = disabled
	s.items.Reset()
	s.startLocked(true)
}

// startLocked runs a pass over the unconsumed items. A full pass is seeded
// with the visible selection and replaces it when done; an incremental pass
// adds to it.
func (s *Session) startLocked(full bool) {
	var previous []matcher.MatchedItem
	if full {
		previous = slices.Clone(s.selection)
	}
	s.replace = full
	s.harvested = false
	s.control = s.matcher.Run(s.query, s.disabled, weak.Make(s.workers), weak.Make(s.items), s.wake, previous)
}

// harvestLocked folds a stopped pass into the selection exactly once.
func (s *Session) harvestLocked() {
	if s.control == nil || s.harvested {
		return
	}
	results := s.control.Take()
	s.harvested = true
	if s.replace {
		s.selection = results
	} else {
		s.selection = append(s.selection, results...)
	}
	matcher.Sort(s.selection)
}

// Refresh matches items appended since the last pass. It reports whether a
// pass was started; nothing starts while a pass is still running.
func (s *Session) Refresh() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	return s.refreshLocked(), nil
}

func (s *Session) refreshLocked() bool {
	if s.control == nil || !s.control.Stopped() {
		return false
	}
	s.harvestLocked()
	if s.items.NumNotTaken() == 0 {
		return false
	}
	s.startLocked(false)
	return true
}

// Results returns the visible result set, best first.
func (s *Session) Results() []matcher.MatchedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.control != nil && s.control.Stopped() {
		s.harvestLocked()
	}
	return slices.Clone(s.selection)
}

// Wait blocks until every item appended so far has been matched against the
// current query and returns the results, best first.
func (s *Session) Wait(ctx context.Context) ([]matcher.MatchedItem, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, ErrSessionClosed
		}
		control := s.control
		s.mu.Unlock()
		if control == nil {
			return nil, nil
		}

		select {
		case <-control.Done():
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		s.mu.Lock()
		if s.control == control && !s.refreshLocked() {
			s.harvestLocked()
			results := slices.Clone(s.selection)
			s.mu.Unlock()
			return results, nil
		}
		s.mu.Unlock()
	}
}

// Progress reports the counters of the current pass.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	control := s.control
	s.mu.Unlock()

	progress := Progress{Total: s.items.Len()}
	if control != nil {
		progress.Processed = control.Processed()
		progress.Matched = control.Matched()
		progress.Running = !control.Stopped()
	}
	return progress
}

// Header returns the pinned header items.
func (s *Session) Header() []core.Item {
	return s.items.Reserved()
}

// ReplaceSource drops every item and result, ready for a new input stream.
func (s *Session) ReplaceSource() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.control != nil {
		s.control.Close()
		s.control = nil
	}
	s.selection = nil
	s.items.Clear()
	return nil
}

// RecordQuery stores query in the history.
func (s *Session) RecordQuery(ctx context.Context, query string) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	_, err := s.history.AddQuery(ctx, query)
	return err
}

// RecentQueries returns up to limit stored queries, most recent first.
func (s *Session) RecentQueries(ctx context.Context, limit int) ([]string, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	entries, err := s.history.RecentQueries(ctx, limit)
	if err != nil {
		return nil, err
	}
	queries := make([]string, len(entries))
	for i, entry := range entries {
		queries[i] = entry.Query
	}
	return queries, nil
}

// ClearHistory removes every stored query.
func (s *Session) ClearHistory(ctx context.Context) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	if err := s.history.Clear(ctx); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
