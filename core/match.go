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

package core

import (
	"fmt"
	"unicode/utf8"
)

// RangeKind discriminates the two MatchRange representations.
type RangeKind int

const (
	// RangeBytes is a contiguous byte span [Start, End) of the item text.
	RangeBytes RangeKind = iota
	// RangeChars is an explicit set of character (rune) indices.
	RangeChars
)

// MatchRange describes which part of an item's text matched.
type MatchRange struct {
	Kind  RangeKind
	Start int   // RangeBytes only
	End   int   // RangeBytes only
	Chars []int // RangeChars only, ascending
}

// ByteRange returns a contiguous byte-span MatchRange.
func ByteRange(start, end int) MatchRange {
	return MatchRange{Kind: RangeBytes, Start: start, End: end}
}

// CharRange returns an explicit character-index MatchRange.
func CharRange(indices []int) MatchRange {
	return MatchRange{Kind: RangeChars, Chars: indices}
}

// CharIndices returns the matched character indices. Byte spans are
// converted against text, which must be the text the range was produced from.
func (r MatchRange) CharIndices(text string) []int {
	if r.Kind == RangeChars {
		return r.Chars
	}
	return ByteRangeToChars(text, r.Start, r.End)
}

func (r MatchRange) String() string {
	if r.Kind == RangeChars {
		return fmt.Sprintf("Chars(%v)", r.Chars)
	}
	return fmt.Sprintf("ByteRange(%d, %d)", r.Start, r.End)
}

// ByteRangeToChars converts the byte span [start, end) of text into the
// indices of the characters it covers. Out-of-range bounds are clamped.
func ByteRangeToChars(text string, start, end int) []int {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return []int{}
	}

	first := utf8.RuneCountInString(text[:start])
	count := utf8.RuneCountInString(text[start:end])
	indices := make([]int, count)
	for i := range indices {
		indices[i] = first + i
	}
	return indices
}

// RuneToByteOffset returns the byte offset of the rune at index runeIdx,
// or len(text) when runeIdx is past the end.
func RuneToByteOffset(text string, runeIdx int) int {
	if runeIdx <= 0 {
		return 0
	}
	n := 0
	for offset := range text {
		if n == runeIdx {
			return offset
		}
		n++
	}
	return len(text)
}

// MatchResult is the outcome of one successful engine evaluation.
type MatchResult struct {
	Rank  Rank
	Range MatchRange
}

// CharIndices returns the result's range as character indices of text.
func (m MatchResult) CharIndices(text string) []int {
	return m.Range.CharIndices(text)
}
