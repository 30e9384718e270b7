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

// Package engine provides match engines and the factories that build them
// from a query string.
//
// A MatchEngine evaluates one item and either returns a MatchResult or
// reports no match. No match is ordinary data, never an error.
//
// Engines compose:
//   - OrEngine returns the first sub-engine result, left to right
//   - AndEngine requires every sub-engine and merges their ranges
//
// Primitive engines:
//   - FuzzyEngine: fzf's FuzzyMatchV2 or sahilm/fuzzy
//   - ExactEngine: substring, prefix, suffix or whole-text match, optionally inverted
//   - RegexEngine: regexp2 patterns
//   - MatchAllEngine: matches everything with a neutral score
//
// # Query syntax
//
// NewFactory builds the default stack. A query is split on unescaped spaces
// into terms that must all match; terms separated by a lone "|" form an OR
// group. Each term may carry modifiers:
//
//	'word   exact substring (fuzzy again in exact mode)
//	^word   prefix
//	word$   suffix
//	^word$  whole text
//	!word   text must not contain word
//
// # Thread Safety
//
// Engines are immutable after construction and safe for concurrent use.
package engine
