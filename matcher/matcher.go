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

package matcher

import (
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"weak"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/engine"
	"github.com/poiesic/sift/pool"
)

const defaultMinChunkSize = 256

// Matcher turns queries into match passes.
type Matcher struct {
	factory      engine.Factory
	caseMatching core.CaseMatching
	minChunkSize int
	dedup        bool
	logger       *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithCaseMatching sets the case policy handed to the engine factory.
// Default is core.CaseSmart.
func WithCaseMatching(cm core.CaseMatching) Option {
	return func(m *Matcher) {
		m.caseMatching = cm
	}
}

// WithMinChunkSize sets the smallest number of items handed to one worker task.
func WithMinChunkSize(n int) Option {
	return func(m *Matcher) {
		if n < 1 {
			n = 1
		}
		m.minChunkSize = n
	}
}

// WithIdentityGrouping toggles evaluating pointer-identical items once per pass.
// Default is enabled.
func WithIdentityGrouping(enabled bool) Option {
	return func(m *Matcher) {
		m.dedup = enabled
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// New creates a Matcher building engines from factory.
func New(factory engine.Factory, opts ...Option) *Matcher {
	m := &Matcher{
		factory:      factory,
		caseMatching: core.CaseSmart,
		minChunkSize: defaultMinChunkSize,
		dedup:        true,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts a match pass and returns its control handle without blocking.
//
// The result buffer starts out holding previous and is replaced only when the
// pass completes without being killed. A disabled pass, or one with an empty
// query, accepts every item with a zero rank and no range. When the pass ends,
// successful or not, a value is offered on wake (never blocking) before the
// handle reports Stopped.
func (m *Matcher) Run(
	query string,
	disabled bool,
	workers weak.Pointer[ants.Pool],
	items weak.Pointer[pool.ItemPool],
	wake chan<- struct{},
	previous []MatchedItem,
) *Control {
	matchEngine := m.factory.CreateEngine(query, m.caseMatching)
	m.logger.Debug("engine", "query", query, "engine", matchEngine.String())

	state := &passState{
		results: previous,
		done:    make(chan struct{}),
	}
	p := &pass{
		engine:       matchEngine,
		disabled:     disabled || query == "",
		dedup:        m.dedup,
		minChunkSize: m.minChunkSize,
		state:        state,
		logger:       m.logger,
	}

	go func() {
		defer close(state.done)
		p.run(workers, items)
		if wake != nil {
			select {
			case wake <- struct{}{}:
			default:
			}
		}
		state.stopped.Store(true)
	}()

	c := &Control{state: state}
	runtime.AddCleanup(c, func(s *passState) {
		s.stopped.Store(true)
	}, state)
	return c
}

type pass struct {
	engine       engine.MatchEngine
	disabled     bool
	dedup        bool
	minChunkSize int
	state        *passState
	logger       *slog.Logger
}

type slot struct {
	result  core.MatchResult
	visited bool
	matched bool
}

func (p *pass) run(workersRef weak.Pointer[ants.Pool], itemsRef weak.Pointer[pool.ItemPool]) {
	workers := workersRef.Value()
	if workers == nil || workers.IsClosed() {
		p.logger.Debug("worker pool gone, skipping pass")
		return
	}
	items := itemsRef.Value()
	if items == nil {
		p.logger.Debug("item pool gone, skipping pass")
		return
	}

	snapshot := items.Take()
	p.logger.Debug("matcher start", "start", snapshot.Start, "total", snapshot.Len())

	slots, ok := p.evaluate(workers, snapshot.Entries)
	if !ok || p.state.stopped.Load() {
		p.logger.Debug("matcher cancelled", "processed", p.state.processed.Load())
		return
	}

	matched := p.collect(snapshot, slots)

	// Kill may land while collecting; a killed pass never publishes.
	p.state.mu.Lock()
	if p.state.stopped.Load() {
		p.state.mu.Unlock()
		p.logger.Debug("matcher cancelled", "processed", p.state.processed.Load())
		return
	}
	p.state.results = matched
	p.state.mu.Unlock()

	p.logger.Debug("matcher stop", "total", snapshot.Len(), "matched", len(matched))
}

func (p *pass) evaluate(workers *ants.Pool, entries []*pool.Entry) ([]slot, bool) {
	slots := make([]slot, len(entries))
	var reps []int
	if p.dedup {
		reps = groupByIdentity(entries)
	}

	chunk := p.chunkSize(len(entries), workers.Cap())
	var wg sync.WaitGroup
	for lo := 0; lo < len(entries); lo += chunk {
		hi := min(lo+chunk, len(entries))
		wg.Add(1)
		err := workers.Submit(func() {
			defer wg.Done()
			p.evaluateRange(entries, slots, reps, lo, hi)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			p.logger.Warn("failed to submit match task", "err", err)
			return nil, false
		}
	}
	wg.Wait()

	for i, rep := range reps {
		if rep == i {
			continue
		}
		if p.state.stopped.Load() {
			break
		}
		if !slots[rep].visited {
			continue
		}
		slots[i] = slots[rep]
		p.state.processed.Add(1)
		if slots[i].matched && !p.disabled {
			p.state.matched.Add(1)
		}
	}
	return slots, true
}

func (p *pass) evaluateRange(entries []*pool.Entry, slots []slot, reps []int, lo, hi int) {
	for i := lo; i < hi; i++ {
		if p.state.stopped.Load() {
			return
		}
		if reps != nil && reps[i] != i {
			continue
		}
		slots[i].visited = true
		p.state.processed.Add(1)
		if p.disabled {
			slots[i].matched = true
			continue
		}
		result, ok := p.engine.MatchItem(entries[i].Item)
		if !ok {
			continue
		}
		slots[i].result = result
		slots[i].matched = true
		p.state.matched.Add(1)
	}
}

func (p *pass) collect(snapshot pool.Snapshot, slots []slot) []MatchedItem {
	matched := make([]MatchedItem, 0, len(slots))
	for i, s := range slots {
		if !s.visited || !s.matched {
			continue
		}
		idx := snapshot.Start + i
		if p.disabled {
			matched = append(matched, NewMatchedItem(snapshot.Entries[i], core.ZeroRank, nil, idx))
			continue
		}
		matchRange := s.result.Range
		matched = append(matched, NewMatchedItem(snapshot.Entries[i], s.result.Rank, &matchRange, idx))
	}
	return matched
}

func (p *pass) chunkSize(n, parallelism int) int {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	size := (n + parallelism - 1) / parallelism
	return max(size, p.minChunkSize, 1)
}

// groupByIdentity maps every index to the first index holding the same
// pointer item. It returns nil when there is nothing to share.
func groupByIdentity(entries []*pool.Entry) []int {
	var firstSeen map[uintptr]int
	reps := make([]int, len(entries))
	shared := false
	for i, entry := range entries {
		reps[i] = i
		key, ok := identity(entry.Item)
		if !ok {
			continue
		}
		if firstSeen == nil {
			firstSeen = make(map[uintptr]int)
		}
		if j, seen := firstSeen[key]; seen {
			reps[i] = j
			shared = true
			continue
		}
		firstSeen[key] = i
	}
	if !shared {
		return nil
	}
	return reps
}

func identity(item core.Item) (uintptr, bool) {
	v := reflect.ValueOf(item)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0, false
	}
	return v.Pointer(), true
}
