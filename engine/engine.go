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
	"unicode/utf8"

	"github.com/poiesic/sift/core"
)

// MatchEngine evaluates a query against one item.
type MatchEngine interface {
	// MatchItem returns the match result and true, or false when item does not match.
	MatchItem(item core.Item) (core.MatchResult, bool)

	// String describes the engine for diagnostics.
	fmt.Stringer
}

// Factory builds a MatchEngine for a query under a case policy.
type Factory interface {
	CreateEngine(query string, caseMatching core.CaseMatching) MatchEngine
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(query string, caseMatching core.CaseMatching) MatchEngine

func (f FactoryFunc) CreateEngine(query string, caseMatching core.CaseMatching) MatchEngine {
	return f(query, caseMatching)
}

// MatchAllEngine matches every item with a zero score and an empty range.
type MatchAllEngine struct {
	rankBuilder *core.RankBuilder
}

var _ MatchEngine = (*MatchAllEngine)(nil)

// NewMatchAllEngine returns an engine that matches everything.
func NewMatchAllEngine(rankBuilder *core.RankBuilder) *MatchAllEngine {
	if rankBuilder == nil {
		rankBuilder = core.DefaultRankBuilder()
	}
	return &MatchAllEngine{rankBuilder: rankBuilder}
}

func (e *MatchAllEngine) MatchItem(item core.Item) (core.MatchResult, bool) {
	length := utf8.RuneCountInString(item.Text())
	return core.MatchResult{
		Rank:  e.rankBuilder.BuildRank(0, 0, 0, length),
		Range: core.ByteRange(0, 0),
	}, true
}

func (e *MatchAllEngine) String() string {
	return "(MatchAll)"
}

// matchingRanges returns the byte ranges of text an engine should look at.
func matchingRanges(item core.Item, text string) [][2]int {
	if ranges := item.MatchingRanges(); len(ranges) > 0 {
		return ranges
	}
	return [][2]int{{0, len(text)}}
}

// clampRange keeps a byte range inside text.
func clampRange(r [2]int, text string) (int, int) {
	start, end := r[0], r[1]
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}
	return start, end
}
