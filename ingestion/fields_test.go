package ingestion

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var whitespace = regexp.MustCompile(DefaultDelimiter)

func mustRanges(t *testing.T, s string) []FieldRange {
	t.Helper()
	ranges, err := ParseFieldRanges(s)
	require.NoError(t, err)
	return ranges
}

func TestParseFieldRange(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"-1", "-1"},
		{"2..", "2.."},
		{"..3", "..3"},
		{"1..-2", "1..-2"},
		{"..", ".."},
		{" 4 ", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseFieldRange(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestParseFieldRange_Invalid(t *testing.T) {
	for _, in := range []string{"", "0", "x", "1..x", "..0", "1...2"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseFieldRange(in)
			assert.ErrorIs(t, err, ErrInvalidFieldRange)
		})
	}
}

func TestParseFieldRanges(t *testing.T) {
	ranges, err := ParseFieldRanges("")
	require.NoError(t, err)
	assert.Nil(t, ranges)

	ranges = mustRanges(t, "2..,1")
	require.Len(t, ranges, 2)
	assert.Equal(t, "2..", ranges[0].String())
	assert.Equal(t, "1", ranges[1].String())
}

func TestTransformFields(t *testing.T) {
	text := "a b  c"
	tests := []struct {
		ranges string
		want   string
	}{
		{"1", "a "},
		{"-1", "c"},
		{"2..", "b  c"},
		{"..2", "a b  "},
		{"1..-2", "a b  "},
		{"..", "a b  c"},
		{"4", ""},
		{"-5", ""},
		{"3..1", ""},
		{"2,1", "b  a "},
	}
	for _, tt := range tests {
		t.Run(tt.ranges, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformFields(whitespace, text, mustRanges(t, tt.ranges)))
		})
	}
}

func TestSplitFields_Edges(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 0}}, splitFields(whitespace, ""))
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}}, splitFields(whitespace, "a b "))
	assert.Equal(t, [][2]int{{0, 3}}, splitFields(whitespace, "abc"))
}

func TestMatchingFields(t *testing.T) {
	text := "usr/bin:local:x"
	colon := regexp.MustCompile(":")

	assert.Equal(t, [][2]int{{8, 14}}, MatchingFields(colon, text, mustRanges(t, "2")))
	assert.Equal(t, [][2]int{{0, 8}, {14, 15}}, MatchingFields(colon, text, mustRanges(t, "1,-1")))
	assert.Empty(t, MatchingFields(colon, text, mustRanges(t, "7")))
}

func TestFieldItem(t *testing.T) {
	colon := regexp.MustCompile(":")

	item := NewFieldItem("src/main.go:12:func main", colon, mustRanges(t, "1,3"), nil)
	assert.Equal(t, "src/main.go:func main", item.Text())
	assert.Equal(t, "src/main.go:12:func main", item.Output())
	assert.Nil(t, item.MatchingRanges())

	item = NewFieldItem("a:b:c", colon, nil, mustRanges(t, "2"))
	assert.Equal(t, "a:b:c", item.Text())
	assert.Equal(t, "a:b:c", item.Output())
	assert.Equal(t, [][2]int{{2, 4}}, item.MatchingRanges())

	item = NewFieldItem("a", colon, nil, mustRanges(t, "3"))
	assert.Equal(t, [][2]int{{0, 0}}, item.MatchingRanges(), "missing field matches nothing")
}
