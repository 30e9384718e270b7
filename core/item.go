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

// Item is one immutable unit of searchable text.
// Implementations must be safe for concurrent reads; items are shared between
// the ingestion side, the item pool and any number of in-flight match passes.
type Item interface {
	// Text is the canonical form engines match against.
	Text() string

	// Output is what gets emitted when the item is selected. It may differ
	// from Text when the input line was transformed for display.
	Output() string

	// Display renders the item with the matched characters highlighted.
	Display(ctx DisplayContext) StyledText

	// MatchingRanges restricts matching to byte ranges of Text.
	// nil means the whole text is matchable.
	MatchingRanges() [][2]int
}

// DisplayContext carries what a renderer knows about one visible item.
type DisplayContext struct {
	Text           string
	Score          int32
	Matches        *MatchRange
	ContainerWidth int
}

// Span is a half-open range of character indices.
type Span struct {
	Start int
	End   int
}

// StyledText is display text plus the character spans to highlight.
type StyledText struct {
	Text       string
	Highlights []Span
}

// TextItem is the plain-text Item: display, output and match text are the same.
type TextItem struct {
	text string
}

var _ Item = (*TextItem)(nil)

// NewTextItem returns a TextItem for line.
func NewTextItem(line string) *TextItem {
	return &TextItem{text: line}
}

func (t *TextItem) Text() string             { return t.text }
func (t *TextItem) Output() string           { return t.text }
func (t *TextItem) MatchingRanges() [][2]int { return nil }

// Display highlights ctx.Matches over the item text.
func (t *TextItem) Display(ctx DisplayContext) StyledText {
	return StyledText{
		Text:       t.text,
		Highlights: HighlightSpans(t.text, ctx.Matches),
	}
}

// HighlightSpans turns a match range into character spans over text,
// merging adjacent character indices into a single span.
func HighlightSpans(text string, matches *MatchRange) []Span {
	if matches == nil {
		return nil
	}
	indices := matches.CharIndices(text)
	if len(indices) == 0 {
		return nil
	}

	spans := make([]Span, 0, 4)
	current := Span{Start: indices[0], End: indices[0] + 1}
	for _, idx := range indices[1:] {
		if idx == current.End {
			current.End++
			continue
		}
		spans = append(spans, current)
		current = Span{Start: idx, End: idx + 1}
	}
	return append(spans, current)
}
