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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type fieldRangeKind int

const (
	fieldSingle fieldRangeKind = iota
	fieldFrom                  // N..
	fieldUpTo                  // ..N
	fieldBetween               // N..M
	fieldAll                   // ..
)

// FieldRange selects a run of delimiter-separated fields.
type FieldRange struct {
	kind  fieldRangeKind
	left  int
	right int
}

// ParseFieldRange parses a single range such as "2", "-1", "2..", "..3" or "1..-2".
func ParseFieldRange(s string) (FieldRange, error) {
	s = strings.TrimSpace(s)
	if s == ".." {
		return FieldRange{kind: fieldAll}, nil
	}

	left, right, isRange := strings.Cut(s, "..")
	if !isRange {
		n, err := parseFieldIndex(s)
		if err != nil {
			return FieldRange{}, err
		}
		return FieldRange{kind: fieldSingle, left: n}, nil
	}

	switch {
	case left == "":
		n, err := parseFieldIndex(right)
		if err != nil {
			return FieldRange{}, err
		}
		return FieldRange{kind: fieldUpTo, right: n}, nil
	case right == "":
		n, err := parseFieldIndex(left)
		if err != nil {
			return FieldRange{}, err
		}
		return FieldRange{kind: fieldFrom, left: n}, nil
	default:
		l, err := parseFieldIndex(left)
		if err != nil {
			return FieldRange{}, err
		}
		r, err := parseFieldIndex(right)
		if err != nil {
			return FieldRange{}, err
		}
		return FieldRange{kind: fieldBetween, left: l, right: r}, nil
	}
}

// ParseFieldRanges parses a comma separated list of ranges.
// An empty string yields no ranges.
func ParseFieldRanges(s string) ([]FieldRange, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ranges := make([]FieldRange, 0, len(parts))
	for _, part := range parts {
		r, err := ParseFieldRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseFieldIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFieldRange, s)
	}
	return n, nil
}

// String renders the range in the syntax ParseFieldRange accepts.
func (r FieldRange) String() string {
	switch r.kind {
	case fieldSingle:
		return strconv.Itoa(r.left)
	case fieldFrom:
		return strconv.Itoa(r.left) + ".."
	case fieldUpTo:
		return ".." + strconv.Itoa(r.right)
	case fieldBetween:
		return strconv.Itoa(r.left) + ".." + strconv.Itoa(r.right)
	default:
		return ".."
	}
}

// bounds resolves the range against n fields as a half-open index pair.
func (r FieldRange) bounds(n int) (lo, hi int, ok bool) {
	switch r.kind {
	case fieldSingle:
		lo = resolveIndex(r.left, n)
		hi = lo + 1
	case fieldFrom:
		lo, hi = resolveIndex(r.left, n), n
	case fieldUpTo:
		lo, hi = 0, resolveIndex(r.right, n)+1
	case fieldBetween:
		lo, hi = resolveIndex(r.left, n), resolveIndex(r.right, n)+1
	default:
		lo, hi = 0, n
	}
	lo = max(lo, 0)
	hi = min(hi, n)
	return lo, hi, lo < hi
}

func resolveIndex(idx, n int) int {
	if idx > 0 {
		return idx - 1
	}
	return n + idx
}

// splitFields returns the byte range of every field in text. Each field
// runs up to the end of the delimiter that follows it.
func splitFields(delimiter *regexp.Regexp, text string) [][2]int {
	var fields [][2]int
	last := 0
	for _, m := range delimiter.FindAllStringIndex(text, -1) {
		if m[1] == 0 {
			continue
		}
		fields = append(fields, [2]int{last, m[1]})
		last = m[1]
	}
	if last < len(text) || len(fields) == 0 {
		fields = append(fields, [2]int{last, len(text)})
	}
	return fields
}

// TransformFields concatenates the fields of text selected by ranges, in
// range order.
func TransformFields(delimiter *regexp.Regexp, text string, ranges []FieldRange) string {
	fields := splitFields(delimiter, text)
	var b strings.Builder
	for _, r := range ranges {
		lo, hi, ok := r.bounds(len(fields))
		if !ok {
			continue
		}
		b.WriteString(text[fields[lo][0]:fields[hi-1][1]])
	}
	return b.String()
}

// MatchingFields returns the byte ranges of text selected by ranges.
func MatchingFields(delimiter *regexp.Regexp, text string, ranges []FieldRange) [][2]int {
	fields := splitFields(delimiter, text)
	out := make([][2]int, 0, len(ranges))
	for _, r := range ranges {
		lo, hi, ok := r.bounds(len(fields))
		if !ok {
			continue
		}
		out = append(out, [2]int{fields[lo][0], fields[hi-1][1]})
	}
	return out
}
