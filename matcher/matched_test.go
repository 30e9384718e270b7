package matcher

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/pool"
)

func TestSort_RankThenIndex(t *testing.T) {
	entry := &pool.Entry{Item: core.NewTextItem("x")}
	items := []MatchedItem{
		NewMatchedItem(entry, core.Rank{-1, 5}, nil, 4),
		NewMatchedItem(entry, core.Rank{-3, 0}, nil, 9),
		NewMatchedItem(entry, core.Rank{-1, 5}, nil, 2),
		NewMatchedItem(entry, core.Rank{-1, 2}, nil, 7),
	}

	Sort(items)

	idx := make([]int, len(items))
	for i, item := range items {
		idx[i] = item.ItemIdx
	}
	assert.Equal(t, []int{9, 7, 2, 4}, idx)
}

func TestSort_IndexBeyond32Bits(t *testing.T) {
	entry := &pool.Entry{Item: core.NewTextItem("x")}
	far := 1<<32 + 5
	items := []MatchedItem{
		NewMatchedItem(entry, core.ZeroRank, nil, far),
		NewMatchedItem(entry, core.ZeroRank, nil, 6),
	}

	Sort(items)

	assert.Equal(t, 6, items[0].ItemIdx)
	assert.Equal(t, far, items[1].ItemIdx)
}

func TestMatchedItem_Item(t *testing.T) {
	entry := &pool.Entry{Item: core.NewTextItem("kept")}
	m := NewMatchedItem(entry, core.ZeroRank, nil, 0)

	item, ok := m.Item()
	assert.True(t, ok)
	assert.Equal(t, "kept", item.Text())
	runtime.KeepAlive(entry)

	var empty MatchedItem
	_, ok = empty.Item()
	assert.False(t, ok)
}
