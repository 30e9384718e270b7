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

package ingestion

import (
	"regexp"

	"github.com/poiesic/sift/core"
)

// FieldItem is an input line seen through field transforms.
type FieldItem struct {
	original string
	text     string
	ranges   [][2]int
}

var _ core.Item = (*FieldItem)(nil)

// NewFieldItem builds an item from line. transform selects the fields that
// are displayed and matched; matching further restricts which of those
// fields the engines look at.
func NewFieldItem(line string, delimiter *regexp.Regexp, transform, matching []FieldRange) *FieldItem {
	item := &FieldItem{original: line, text: line}
	if len(transform) > 0 {
		item.text = TransformFields(delimiter, line, transform)
	}
	if len(matching) > 0 {
		item.ranges = MatchingFields(delimiter, item.text, matching)
		if len(item.ranges) == 0 {
			// No selected field exists on this line.
			item.ranges = [][2]int{{0, 0}}
		}
	}
	return item
}

func (f *FieldItem) Text() string             { return f.text }
func (f *FieldItem) MatchingRanges() [][2]int { return f.ranges }

// Output returns the untransformed input line.
func (f *FieldItem) Output() string {
	return f.original
}

// Display highlights ctx.Matches over the transformed text.
func (f *FieldItem) Display(ctx core.DisplayContext) core.StyledText {
	return core.StyledText{
		Text:       f.text,
		Highlights: core.HighlightSpans(f.text, ctx.Matches),
	}
}
