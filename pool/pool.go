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

package pool

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/poiesic/sift/core"
)

const defaultCapacity = 1024

// Entry is the pool's shared reference to one item. Every entry is its own
// allocation so weak pointers to it are independent of its neighbours.
type Entry struct {
	core.Item
}

// Snapshot is the contiguous run of entries one Take handed out.
type Snapshot struct {
	// Start is the pool index of Entries[0].
	Start   int
	Entries []*Entry
}

// Len returns the number of entries in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Entries)
}

// ItemPool is a thread-safe, append-only item store.
type ItemPool struct {
	mu       sync.Mutex
	items    []*Entry
	reserved []weak.Pointer[Entry]

	length atomic.Int64
	taken  atomic.Int64

	linesToReserve int
	logger         *slog.Logger
}

// Option configures an ItemPool.
type Option func(*ItemPool)

// WithLinesToReserve reserves the first n appended items as a header.
func WithLinesToReserve(n int) Option {
	return func(p *ItemPool) {
		if n < 0 {
			n = 0
		}
		p.linesToReserve = n
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *ItemPool) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewItemPool creates an empty pool.
func NewItemPool(opts ...Option) *ItemPool {
	p := &ItemPool{
		items:  make([]*Entry, 0, defaultCapacity),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Len returns the number of items in the pool. The value may be stale.
func (p *ItemPool) Len() int {
	return int(p.length.Load())
}

// NumTaken returns the taken watermark. The value may be stale.
func (p *ItemPool) NumTaken() int {
	return int(p.taken.Load())
}

// NumNotTaken returns how many items the next Take would hand out.
// The value may be stale.
func (p *ItemPool) NumNotTaken() int {
	n := p.Len() - p.NumTaken()
	if n < 0 {
		return 0
	}
	return n
}

// Append adds items and returns the new pool length. While the header quota
// is not filled, leading items become reserved header items; the header is
// always a prefix of the pool and is never handed out by Take.
func (p *ItemPool) Append(items []core.Item) int {
	p.logger.Debug("item pool append", "count", len(items))

	p.mu.Lock()
	defer p.mu.Unlock()

	quota := p.linesToReserve - len(p.reserved)
	for i, item := range items {
		entry := &Entry{Item: item}
		p.items = append(p.items, entry)
		if i < quota {
			p.reserved = append(p.reserved, weak.Make(entry))
		}
	}

	n := len(p.items)
	p.length.Store(int64(n))
	return n
}

// Take advances the taken watermark to the current length and returns the
// entries between the old and the new watermark, skipping the header.
//
// The snapshot shares the pool's backing array but is capacity-clipped, so
// later appends never write into it and it stays valid after Clear.
func (p *ItemPool) Take() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.items)
	start := int(p.taken.Swap(int64(n)))
	if header := len(p.reserved); start < header {
		start = header
	}
	if start > n {
		start = n
	}
	return Snapshot{
		Start:   start,
		Entries: p.items[start:n:n],
	}
}

// Reserved returns the header items that are still alive, in append order.
func (p *ItemPool) Reserved() []core.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]core.Item, 0, len(p.reserved))
	for _, ref := range p.reserved {
		if entry := ref.Value(); entry != nil {
			items = append(items, entry.Item)
		}
	}
	return items
}

// Reset rewinds the taken watermark so the next Take re-delivers every item.
func (p *ItemPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.taken.Store(0)
}

// Clear drops every item, the header included, and zeroes both counters.
func (p *ItemPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Fresh slices: outstanding snapshots keep the old backing array.
	p.items = make([]*Entry, 0, defaultCapacity)
	p.reserved = nil
	p.taken.Store(0)
	p.length.Store(0)
}
