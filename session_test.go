package sift

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/engine"
	"github.com/poiesic/sift/ingestion"
	"github.com/poiesic/sift/matcher"
	"github.com/poiesic/sift/storage/badger"
)

func newSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	s, err := NewSession(append([]SessionOption{WithWorkers(2)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func lines(items ...string) []core.Item {
	out := make([]core.Item, len(items))
	for i, item := range items {
		out[i] = core.NewTextItem(item)
	}
	return out
}

func outputs(t *testing.T, results []matcher.MatchedItem) []string {
	t.Helper()
	out := make([]string, len(results))
	for i, r := range results {
		item, ok := r.Item()
		require.True(t, ok)
		out[i] = item.Output()
	}
	return out
}

func wait(t *testing.T, s *Session) []matcher.MatchedItem {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	results, err := s.Wait(ctx)
	require.NoError(t, err)
	return results
}

func TestNewSession_ConflictingModes(t *testing.T) {
	_, err := NewSession(WithExact(true), WithRegex(true))
	assert.ErrorIs(t, err, engine.ErrConflictingModes)
}

func TestSession_EmptyQueryListsEverything(t *testing.T) {
	s := newSession(t)
	s.Append(lines("one", "two", "three"))

	require.NoError(t, s.Query(""))
	results := wait(t, s)

	assert.Equal(t, []string{"one", "two", "three"}, outputs(t, results))
	for _, r := range results {
		assert.Equal(t, core.ZeroRank, r.Rank)
		assert.Nil(t, r.Range)
	}
}

func TestSession_ExactQuery(t *testing.T) {
	s := newSession(t, WithExact(true))
	s.Append(lines("foobar", "baz", "barfoo", "qux"))

	require.NoError(t, s.Query("foo"))
	results := wait(t, s)

	assert.ElementsMatch(t, []string{"foobar", "barfoo"}, outputs(t, results))
	assert.True(t, slices.IsSortedFunc(results, matcher.Compare))
}

func TestSession_QueryChangeRematchesEverything(t *testing.T) {
	s := newSession(t, WithExact(true))
	s.Append(lines("apple", "banana", "cherry"))

	require.NoError(t, s.Query("an"))
	assert.Equal(t, []string{"banana"}, outputs(t, wait(t, s)))

	require.NoError(t, s.Query("e"))
	assert.ElementsMatch(t, []string{"apple", "cherry"}, outputs(t, wait(t, s)))
}

// gatedItem blocks in Text once armed, until open is called.
type gatedItem struct {
	*core.TextItem
	armed   atomic.Bool
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
	open    func()
}

func newGatedItem(line string) *gatedItem {
	g := &gatedItem{
		TextItem: core.NewTextItem(line),
		entered:  make(chan struct{}),
		gate:     make(chan struct{}),
	}
	g.open = sync.OnceFunc(func() { close(g.gate) })
	return g
}

func (g *gatedItem) Text() string {
	if g.armed.Load() {
		g.once.Do(func() { close(g.entered) })
		<-g.gate
	}
	return g.TextItem.Text()
}

func TestSession_QueryRestartKeepsResultsUntilPublished(t *testing.T) {
	s := newSession(t)
	apple := newGatedItem("apple")
	t.Cleanup(apple.open)
	s.Append([]core.Item{apple, core.NewTextItem("banana")})

	require.NoError(t, s.Query("banana"))
	assert.Equal(t, []string{"banana"}, outputs(t, wait(t, s)))

	apple.armed.Store(true)
	require.NoError(t, s.Query("apple"))
	<-apple.entered

	assert.Equal(t, []string{"banana"}, outputs(t, s.Results()))
	assert.True(t, s.Progress().Running)

	apple.open()
	assert.Equal(t, []string{"apple"}, outputs(t, wait(t, s)))
	assert.Equal(t, []string{"apple"}, outputs(t, s.Results()))
}

func TestSession_IncrementalItems(t *testing.T) {
	s := newSession(t)
	s.Append(lines("a1", "a2"))

	require.NoError(t, s.Query(""))
	assert.Len(t, wait(t, s), 2)

	s.Append(lines("a3"))
	results := wait(t, s)
	assert.Equal(t, []string{"a1", "a2", "a3"}, outputs(t, results))
	assert.Equal(t, 2, results[2].ItemIdx)

	started, err := s.Refresh()
	require.NoError(t, err)
	assert.False(t, started, "nothing new to match")
}

func TestSession_Header(t *testing.T) {
	s := newSession(t, WithHeaderLines(1))
	s.Append(lines("NAME", "alpha", "beta"))

	require.NoError(t, s.Query(""))
	assert.Equal(t, []string{"alpha", "beta"}, outputs(t, wait(t, s)))

	header := s.Header()
	require.Len(t, header, 1)
	assert.Equal(t, "NAME", header[0].Text())
}

func TestSession_Disable(t *testing.T) {
	s := newSession(t, WithExact(true))
	s.Append(lines("x", "y"))

	require.NoError(t, s.Query("zzz"))
	assert.Empty(t, wait(t, s))

	require.NoError(t, s.Disable(true))
	assert.Equal(t, []string{"x", "y"}, outputs(t, wait(t, s)))

	require.NoError(t, s.Disable(false))
	assert.Empty(t, wait(t, s))
}

func TestSession_ReplaceSource(t *testing.T) {
	s := newSession(t)
	s.Append(lines("old"))
	require.NoError(t, s.Query(""))
	wait(t, s)

	require.NoError(t, s.ReplaceSource())
	assert.Empty(t, s.Results())
	assert.Equal(t, 0, s.Progress().Total)

	s.Append(lines("new"))
	require.NoError(t, s.Query(""))
	assert.Equal(t, []string{"new"}, outputs(t, wait(t, s)))
}

func TestSession_Ingest(t *testing.T) {
	s := newSession(t)

	n, err := s.Ingest(context.Background(), strings.NewReader("id name\n1 alice\n2 bob\n"),
		ingestion.Options{WithNth: "2"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.Query(""))
	results := wait(t, s)
	require.Len(t, results, 3)

	item, ok := results[1].Item()
	require.True(t, ok)
	assert.Equal(t, "alice", item.Text())
	assert.Equal(t, "1 alice", item.Output())
}

func TestSession_ProgressAndWake(t *testing.T) {
	wake := make(chan struct{}, 1)
	s := newSession(t, WithWake(wake))
	s.Append(lines("a", "b", "c"))

	require.NoError(t, s.Query(""))
	select {
	case <-wake:
	case <-time.After(5 * time.Second):
		t.Fatal("no wake signal")
	}
	wait(t, s)

	progress := s.Progress()
	assert.Equal(t, 3, progress.Total)
	assert.Equal(t, 3, progress.Processed)
	assert.False(t, progress.Running)
}

func TestSession_Closed(t *testing.T) {
	s, err := NewSession()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Query("x"), ErrSessionClosed)
	assert.ErrorIs(t, s.ReplaceSource(), ErrSessionClosed)
	_, err = s.Wait(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_History(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		s := newSession(t)
		assert.ErrorIs(t, s.RecordQuery(ctx, "q"), ErrHistoryDisabled)
		_, err := s.RecentQueries(ctx, 1)
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("shared repository", func(t *testing.T) {
		repo, err := badger.NewMemoryHistory()
		require.NoError(t, err)
		defer repo.Close()

		s := newSession(t, WithHistory(repo))
		require.NoError(t, s.RecordQuery(ctx, "first"))
		require.NoError(t, s.RecordQuery(ctx, "second"))

		recent, err := s.RecentQueries(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, recent)

		require.NoError(t, s.ClearHistory(ctx))
		recent, err = s.RecentQueries(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, recent)
	})

	t.Run("owned directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "history")
		s, err := NewSession(WithHistoryDir(dir))
		require.NoError(t, err)
		require.NoError(t, s.RecordQuery(ctx, "kept"))
		require.NoError(t, s.Close())

		s, err = NewSession(WithHistoryDir(dir))
		require.NoError(t, err)
		defer s.Close()
		recent, err := s.RecentQueries(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"kept"}, recent)
	})
}
