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

package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/poiesic/sift/core"
)

// ExactKind selects where the pattern must appear.
type ExactKind int

const (
	ExactContains ExactKind = iota
	ExactPrefix
	ExactSuffix
	ExactEqual
)

func (k ExactKind) String() string {
	switch k {
	case ExactPrefix:
		return "prefix"
	case ExactSuffix:
		return "suffix"
	case ExactEqual:
		return "equal"
	default:
		return "contains"
	}
}

type exactAlgo func(caseSensitive bool, normalize bool, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (algo.Result, *[]int)

// ExactEngine matches the pattern literally. An inverse engine matches the
// items the pattern is absent from.
type ExactEngine struct {
	query         string
	pattern       []rune
	caseSensitive bool
	kind          ExactKind
	inverse       bool
	match         exactAlgo
	rankBuilder   *core.RankBuilder
}

var _ MatchEngine = (*ExactEngine)(nil)

// NewExactEngine returns an exact engine for query.
func NewExactEngine(query string, caseSensitive bool, kind ExactKind, inverse bool, rankBuilder *core.RankBuilder) *ExactEngine {
	initScheme.Do(func() {
		algo.Init("default")
	})
	if rankBuilder == nil {
		rankBuilder = core.DefaultRankBuilder()
	}
	pattern := query
	if !caseSensitive {
		pattern = strings.ToLower(query)
	}

	var match exactAlgo
	switch kind {
	case ExactPrefix:
		match = algo.PrefixMatch
	case ExactSuffix:
		match = algo.SuffixMatch
	case ExactEqual:
		match = algo.EqualMatch
	default:
		match = algo.ExactMatchNaive
	}

	return &ExactEngine{
		query:         query,
		pattern:       []rune(pattern),
		caseSensitive: caseSensitive,
		kind:          kind,
		inverse:       inverse,
		match:         match,
		rankBuilder:   rankBuilder,
	}
}

func (e *ExactEngine) MatchItem(item core.Item) (core.MatchResult, bool) {
	text := item.Text()
	length := utf8.RuneCountInString(text)

	begin, end, score, found := e.find(item, text)
	if e.inverse {
		if found {
			return core.MatchResult{}, false
		}
		return core.MatchResult{
			Rank:  e.rankBuilder.BuildRank(0, 0, 0, length),
			Range: core.ByteRange(0, 0),
		}, true
	}
	if !found {
		return core.MatchResult{}, false
	}

	charBegin := utf8.RuneCountInString(text[:begin])
	charEnd := charBegin + utf8.RuneCountInString(text[begin:end])
	return core.MatchResult{
		Rank:  e.rankBuilder.BuildRank(int32(score), charBegin, charEnd, length),
		Range: core.ByteRange(begin, end),
	}, true
}

// find returns the byte span of the first match in any matching range.
func (e *ExactEngine) find(item core.Item, text string) (int, int, int, bool) {
	if len(e.pattern) == 0 {
		return 0, 0, 0, true
	}
	for _, r := range matchingRanges(item, text) {
		start, end := clampRange(r, text)
		sub := text[start:end]
		input := sub
		if !e.caseSensitive {
			input = strings.ToLower(sub)
		}
		chars := util.ToChars([]byte(input))
		result, _ := e.match(true, false, true, &chars, e.pattern, false, nil)
		if result.Start < 0 {
			continue
		}
		return start + core.RuneToByteOffset(sub, result.Start),
			start + core.RuneToByteOffset(sub, result.End),
			result.Score, true
	}
	return 0, 0, 0, false
}

func (e *ExactEngine) String() string {
	prefix := "Exact"
	if e.inverse {
		prefix = "!Exact"
	}
	return fmt.Sprintf("(%s[%s]: %s)", prefix, e.kind, e.query)
}
