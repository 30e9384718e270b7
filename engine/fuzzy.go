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
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/poiesic/sift/core"
)

// Algorithm selects the fuzzy scoring implementation.
type Algorithm int

const (
	// AlgoFzfV2 uses fzf's optimal-alignment FuzzyMatchV2.
	AlgoFzfV2 Algorithm = iota
	// AlgoSimple uses sahilm/fuzzy's greedy scorer.
	AlgoSimple
)

// ParseAlgorithm parses "v2" (or "fzf") and "simple".
func ParseAlgorithm(text string) (Algorithm, error) {
	switch strings.ToLower(text) {
	case "", "v2", "fzf":
		return AlgoFzfV2, nil
	case "simple":
		return AlgoSimple, nil
	default:
		return AlgoFzfV2, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, text)
	}
}

func (a Algorithm) String() string {
	if a == AlgoSimple {
		return "simple"
	}
	return "v2"
}

var initScheme sync.Once

// FuzzyEngine matches the query characters in order, not necessarily adjacent.
type FuzzyEngine struct {
	query         string
	pattern       []rune
	caseSensitive bool
	algorithm     Algorithm
	rankBuilder   *core.RankBuilder
}

var _ MatchEngine = (*FuzzyEngine)(nil)

// NewFuzzyEngine returns a fuzzy engine for query.
func NewFuzzyEngine(query string, caseSensitive bool, algorithm Algorithm, rankBuilder *core.RankBuilder) *FuzzyEngine {
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
	return &FuzzyEngine{
		query:         query,
		pattern:       []rune(pattern),
		caseSensitive: caseSensitive,
		algorithm:     algorithm,
		rankBuilder:   rankBuilder,
	}
}

func (e *FuzzyEngine) MatchItem(item core.Item) (core.MatchResult, bool) {
	text := item.Text()
	length := utf8.RuneCountInString(text)

	if len(e.pattern) == 0 {
		return core.MatchResult{
			Rank:  e.rankBuilder.BuildRank(0, 0, 0, length),
			Range: core.CharRange([]int{}),
		}, true
	}

	// The first matching range wins.
	for _, r := range matchingRanges(item, text) {
		start, end := clampRange(r, text)
		positions, score, ok := e.match(text[start:end])
		if !ok {
			continue
		}

		offset := utf8.RuneCountInString(text[:start])
		for i := range positions {
			positions[i] += offset
		}
		begin, last := 0, 0
		if len(positions) > 0 {
			begin, last = positions[0], positions[len(positions)-1]+1
		}
		return core.MatchResult{
			Rank:  e.rankBuilder.BuildRank(int32(score), begin, last, length),
			Range: core.CharRange(positions),
		}, true
	}
	return core.MatchResult{}, false
}

// match returns ascending rune positions relative to text.
func (e *FuzzyEngine) match(text string) ([]int, int, bool) {
	if e.algorithm == AlgoSimple {
		return e.matchSimple(text)
	}
	return e.matchFzf(text)
}

func (e *FuzzyEngine) matchFzf(text string) ([]int, int, bool) {
	// Lower the input ourselves and match case sensitively: rune positions
	// are unchanged by lowering, and fzf's folding only covers ASCII.
	input := text
	if !e.caseSensitive {
		input = strings.ToLower(text)
	}
	chars := util.ToChars([]byte(input))
	result, pos := algo.FuzzyMatchV2(true, false, true, &chars, e.pattern, true, nil)
	if result.Start < 0 || pos == nil {
		return nil, 0, false
	}

	positions := slices.Clone(*pos)
	slices.Sort(positions)
	return positions, result.Score, true
}

func (e *FuzzyEngine) matchSimple(text string) ([]int, int, bool) {
	matches := sahilm.Find(e.query, []string{text})
	if len(matches) == 0 {
		return nil, 0, false
	}
	match := matches[0]

	// MatchedIndexes are byte offsets.
	positions := make([]int, 0, len(match.MatchedIndexes))
	runeIdx := 0
	next := 0
	for offset := range text {
		if next < len(match.MatchedIndexes) && match.MatchedIndexes[next] == offset {
			positions = append(positions, runeIdx)
			next++
		}
		runeIdx++
	}

	// sahilm/fuzzy always folds case.
	if e.caseSensitive {
		runes := []rune(text)
		for i, p := range positions {
			if i >= len(e.pattern) || runes[p] != e.pattern[i] {
				return nil, 0, false
			}
		}
	}
	return positions, match.Score, true
}

func (e *FuzzyEngine) String() string {
	return fmt.Sprintf("(Fuzzy[%s]: %s)", e.algorithm, e.query)
}
