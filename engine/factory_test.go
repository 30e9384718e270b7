package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
)

func newTestFactory(t *testing.T, cfg Config) Factory {
	t.Helper()
	f, err := NewFactory(cfg)
	require.NoError(t, err)
	return f
}

func TestFactory_TermSyntax(t *testing.T) {
	f := newTestFactory(t, Config{})

	tests := []struct {
		query string
		want  string
	}{
		{query: "", want: "(MatchAll)"},
		{query: "foo", want: "(Fuzzy[v2]: foo)"},
		{query: "'foo", want: "(Exact[contains]: foo)"},
		{query: "^foo", want: "(Exact[prefix]: foo)"},
		{query: "foo$", want: "(Exact[suffix]: foo)"},
		{query: "^foo$", want: "(Exact[equal]: foo)"},
		{query: "!foo", want: "(!Exact[contains]: foo)"},
		{query: "!^foo", want: "(!Exact[prefix]: foo)"},
		{query: "a b", want: "(And: (Fuzzy[v2]: a), (Fuzzy[v2]: b))"},
		{query: "a | b c", want: "(And: (Or: (Fuzzy[v2]: a), (Fuzzy[v2]: b)), (Fuzzy[v2]: c))"},
		{query: "a\\ b", want: "(Fuzzy[v2]: a b)"},
		{query: "cost\\$", want: "(Fuzzy[v2]: cost$)"},
		{query: "  ", want: "(MatchAll)"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, f.CreateEngine(tt.query, core.CaseSmart).String())
		})
	}
}

func TestFactory_ExactMode(t *testing.T) {
	f := newTestFactory(t, Config{Exact: true, Algorithm: AlgoSimple})
	assert.Equal(t, "(Exact[contains]: foo)", f.CreateEngine("foo", core.CaseSmart).String())
	assert.Equal(t, "(Fuzzy[simple]: foo)", f.CreateEngine("'foo", core.CaseSmart).String())
}

func TestFactory_Regex(t *testing.T) {
	f := newTestFactory(t, Config{Regex: true})
	e := f.CreateEngine("^ma.n a|b", core.CaseSmart)
	assert.Equal(t, "(Regex: ^ma.n a|b)", e.String())

	_, ok := e.MatchItem(core.NewTextItem("main a"))
	assert.True(t, ok)
}

func TestFactory_Validate(t *testing.T) {
	_, err := NewFactory(Config{Exact: true, Regex: true})
	assert.ErrorIs(t, err, ErrConflictingModes)

	_, err = NewFactory(Config{Algorithm: Algorithm(42)})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestFactory_SmartCasePerTerm(t *testing.T) {
	f := newTestFactory(t, Config{})
	e := f.CreateEngine("Main go", core.CaseSmart)

	_, ok := e.MatchItem(core.NewTextItem("Main.go"))
	assert.True(t, ok)

	_, ok = e.MatchItem(core.NewTextItem("main.GO"))
	assert.False(t, ok, "upper-case term is case sensitive")
}

func TestFactory_EndToEnd(t *testing.T) {
	f := newTestFactory(t, Config{})
	e := f.CreateEngine("^src !test .go$", core.CaseSmart)

	_, ok := e.MatchItem(core.NewTextItem("src/main.go"))
	assert.True(t, ok)
	_, ok = e.MatchItem(core.NewTextItem("src/main_test.go"))
	assert.False(t, ok)
	_, ok = e.MatchItem(core.NewTextItem("pkg/main.go"))
	assert.False(t, ok)
}

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"a b", "c"}, splitTerms(`a\ b  c`))
	assert.Nil(t, splitTerms("   "))
	assert.Equal(t, []string{`x\`}, splitTerms(`x\`))
}
