package matcher

import (
	"cmp"
	"slices"
	"weak"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/pool"
)

// MatchedItem is one entry of a published result set.
type MatchedItem struct {
	entry weak.Pointer[pool.Entry]

	Rank core.Rank

	// Range is nil for unranked results.
	Range *core.MatchRange

	// ItemIdx is the item's position in the pool when it was taken.
	ItemIdx int
}

// NewMatchedItem builds a MatchedItem holding a weak reference to entry.
func NewMatchedItem(entry *pool.Entry, rank core.Rank, matchRange *core.MatchRange, itemIdx int) MatchedItem {
	return MatchedItem{
		entry:   weak.Make(entry),
		Rank:    rank,
		Range:   matchRange,
		ItemIdx: itemIdx,
	}
}

// Item returns the matched item, or false if the pool has since dropped it.
func (m MatchedItem) Item() (core.Item, bool) {
	entry := m.entry.Value()
	if entry == nil {
		return nil, false
	}
	return entry.Item, true
}

// Compare orders by rank, then by original stream position.
func Compare(a, b MatchedItem) int {
	if c := a.Rank.Compare(b.Rank); c != 0 {
		return c
	}
	return cmp.Compare(a.ItemIdx, b.ItemIdx)
}

// Sort orders items best first.
func Sort(items []MatchedItem) {
	slices.SortFunc(items, Compare)
}
