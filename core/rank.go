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
	"strings"
)

// RankSlots is the fixed width of a Rank.
const RankSlots = 4

// Rank is compared lexicographically; element 0 is the primary key.
// Smaller ranks are better.
type Rank [RankSlots]int32

// ZeroRank is the neutral rank given to unranked items.
var ZeroRank = Rank{}

// Compare returns -1, 0 or +1 comparing r with other lexicographically.
func (r Rank) Compare(other Rank) int {
	for i := range r {
		switch {
		case r[i] < other[i]:
			return -1
		case r[i] > other[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether r sorts before other.
func (r Rank) Less(other Rank) bool {
	return r.Compare(other) < 0
}

// RankCriteria is one signal placed into a Rank slot.
type RankCriteria int

const (
	Score RankCriteria = iota
	Begin
	End
	NegScore
	NegBegin
	NegEnd
	Length
	NegLength
)

var criteriaNames = map[RankCriteria]string{
	Score:     "score",
	Begin:     "begin",
	End:       "end",
	NegScore:  "-score",
	NegBegin:  "-begin",
	NegEnd:    "-end",
	Length:    "length",
	NegLength: "-length",
}

func (c RankCriteria) String() string {
	if name, ok := criteriaNames[c]; ok {
		return name
	}
	return fmt.Sprintf("RankCriteria(%d)", int(c))
}

// ParseCriteria parses a single criterion name such as "score" or "-length".
func ParseCriteria(text string) (RankCriteria, error) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for criteria, name := range criteriaNames {
		if name == lowered {
			return criteria, nil
		}
	}
	return Score, fmt.Errorf("%w: %q", ErrUnknownCriteria, text)
}

// ParseTiebreak parses a comma separated criteria list, e.g. "score,-length".
func ParseTiebreak(text string) ([]RankCriteria, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	criteria := make([]RankCriteria, 0, len(parts))
	for _, part := range parts {
		c, err := ParseCriteria(part)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

// RankBuilder maps raw match signals into a Rank following a criteria order.
type RankBuilder struct {
	criteria []RankCriteria
}

// DefaultRankBuilder ranks by score, then begin, then end.
func DefaultRankBuilder() *RankBuilder {
	return &RankBuilder{criteria: []RankCriteria{Score, Begin, End}}
}

// NewRankBuilder normalizes criteria: duplicates are dropped keeping the
// first occurrence, only the first of Score/NegScore survives, and Score is
// prepended when neither is present.
func NewRankBuilder(criteria []RankCriteria) *RankBuilder {
	normalized := make([]RankCriteria, 0, len(criteria)+1)
	seen := make(map[RankCriteria]bool, len(criteria))
	hasScore := false
	for _, c := range criteria {
		if seen[c] {
			continue
		}
		if c == Score || c == NegScore {
			if hasScore {
				continue
			}
			hasScore = true
		}
		seen[c] = true
		normalized = append(normalized, c)
	}
	if !hasScore {
		normalized = append([]RankCriteria{Score}, normalized...)
	}
	return &RankBuilder{criteria: normalized}
}

// Criteria returns a copy of the normalized criteria list.
func (b *RankBuilder) Criteria() []RankCriteria {
	return append([]RankCriteria(nil), b.criteria...)
}

// BuildRank places the signals into the rank slots. score is "greater is
// better" and is negated for Score so ascending order puts it first.
// Only the first RankSlots criteria are used; unused slots stay 0.
func (b *RankBuilder) BuildRank(score int32, begin, end, length int) Rank {
	var rank Rank
	for i, criteria := range b.criteria {
		if i >= RankSlots {
			break
		}
		var value int32
		switch criteria {
		case Score:
			value = -score
		case NegScore:
			value = score
		case Begin:
			value = int32(begin)
		case NegBegin:
			value = -int32(begin)
		case End:
			value = int32(end)
		case NegEnd:
			value = -int32(end)
		case Length:
			value = int32(length)
		case NegLength:
			value = -int32(length)
		}
		rank[i] = value
	}
	return rank
}
