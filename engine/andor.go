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
	"slices"
	"strings"

	"github.com/poiesic/sift/core"
)

// OrEngine matches when any sub-engine matches. Sub-engines are tried left
// to right and the first result wins; later engines are not evaluated.
type OrEngine struct {
	engines []MatchEngine
}

var _ MatchEngine = (*OrEngine)(nil)

// NewOrEngine combines engines with OR semantics.
func NewOrEngine(engines ...MatchEngine) *OrEngine {
	return &OrEngine{engines: engines}
}

func (e *OrEngine) MatchItem(item core.Item) (core.MatchResult, bool) {
	for _, engine := range e.engines {
		if result, ok := engine.MatchItem(item); ok {
			return result, true
		}
	}
	return core.MatchResult{}, false
}

func (e *OrEngine) String() string {
	return "(Or: " + describe(e.engines) + ")"
}

// AndEngine matches when every sub-engine matches. Evaluation stops at the
// first miss.
//
// The merged result keeps the rank of the first sub-engine. Its range is the
// sorted, deduplicated union of every sub-range in character indices.
type AndEngine struct {
	engines []MatchEngine
}

var _ MatchEngine = (*AndEngine)(nil)

// NewAndEngine combines engines with AND semantics.
func NewAndEngine(engines ...MatchEngine) *AndEngine {
	return &AndEngine{engines: engines}
}

func (e *AndEngine) MatchItem(item core.Item) (core.MatchResult, bool) {
	if len(e.engines) == 0 {
		return core.MatchResult{}, false
	}

	results := make([]core.MatchResult, 0, len(e.engines))
	for _, engine := range e.engines {
		result, ok := engine.MatchItem(item)
		if !ok {
			return core.MatchResult{}, false
		}
		results = append(results, result)
	}
	return mergeResults(results, item.Text()), true
}

func (e *AndEngine) String() string {
	return "(And: " + describe(e.engines) + ")"
}

func mergeResults(results []core.MatchResult, text string) core.MatchResult {
	var indices []int
	for _, result := range results {
		indices = append(indices, result.CharIndices(text)...)
	}
	slices.Sort(indices)
	indices = slices.Compact(indices)
	if indices == nil {
		indices = []int{}
	}

	return core.MatchResult{
		Rank:  results[0].Rank,
		Range: core.CharRange(indices),
	}
}

func describe(engines []MatchEngine) string {
	parts := make([]string, len(engines))
	for i, engine := range engines {
		parts[i] = engine.String()
	}
	return strings.Join(parts, ", ")
}
