package engine

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/poiesic/sift/core"
)

// RegexEngine matches a regexp2 pattern. A pattern that does not compile
// matches nothing.
type RegexEngine struct {
	query       string
	re          *regexp2.Regexp
	rankBuilder *core.RankBuilder
}

var _ MatchEngine = (*RegexEngine)(nil)

// NewRegexEngine compiles query. Compilation errors are logged at debug
// level since a half-typed pattern is the normal state while typing.
func NewRegexEngine(query string, caseSensitive bool, rankBuilder *core.RankBuilder, logger *slog.Logger) *RegexEngine {
	if rankBuilder == nil {
		rankBuilder = core.DefaultRankBuilder()
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := regexp2.None
	if !caseSensitive {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(query, opts)
	if err != nil {
		logger.Debug("invalid regex, matching nothing", "query", query, "err", err)
		re = nil
	}

	return &RegexEngine{query: query, re: re, rankBuilder: rankBuilder}
}

func (e *RegexEngine) MatchItem(item core.Item) (core.MatchResult, bool) {
	if e.re == nil {
		return core.MatchResult{}, false
	}
	text := item.Text()
	length := utf8.RuneCountInString(text)

	for _, r := range matchingRanges(item, text) {
		start, end := clampRange(r, text)
		sub := text[start:end]
		m, err := e.re.FindStringMatch(sub)
		if err != nil || m == nil {
			continue
		}

		// regexp2 reports rune positions.
		offset := utf8.RuneCountInString(text[:start])
		begin := offset + m.Index
		last := begin + m.Length
		byteBegin := start + core.RuneToByteOffset(sub, m.Index)
		byteEnd := start + core.RuneToByteOffset(sub, m.Index+m.Length)
		return core.MatchResult{
			Rank:  e.rankBuilder.BuildRank(int32(m.Length), begin, last, length),
			Range: core.ByteRange(byteBegin, byteEnd),
		}, true
	}
	return core.MatchResult{}, false
}

func (e *RegexEngine) String() string {
	return fmt.Sprintf("(Regex: %s)", e.query)
}
