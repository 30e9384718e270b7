package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteRangeToChars_ASCII(t *testing.T) {
	assert.Equal(t, []int{2, 3, 4}, ByteRangeToChars("abcdefg", 2, 5))
}

func TestByteRangeToChars_Multibyte(t *testing.T) {
	// "héllo": 'é' is two bytes, so bytes [1,4) cover "él" = chars 1 and 2.
	assert.Equal(t, []int{1, 2}, ByteRangeToChars("héllo", 1, 4))
}

func TestByteRangeToChars_Empty(t *testing.T) {
	assert.Empty(t, ByteRangeToChars("abc", 2, 2))
	assert.Empty(t, ByteRangeToChars("abc", 5, 9))
}

func TestMatchRange_CharIndices(t *testing.T) {
	chars := CharRange([]int{0, 4})
	assert.Equal(t, []int{0, 4}, chars.CharIndices("anything"))

	bytes := ByteRange(0, 2)
	assert.Equal(t, []int{0, 1}, bytes.CharIndices("xyz"))
}

func TestRuneToByteOffset(t *testing.T) {
	assert.Equal(t, 0, RuneToByteOffset("héllo", 0))
	assert.Equal(t, 1, RuneToByteOffset("héllo", 1))
	assert.Equal(t, 3, RuneToByteOffset("héllo", 2))
	assert.Equal(t, 6, RuneToByteOffset("héllo", 99))
}

func TestHighlightSpans(t *testing.T) {
	r := CharRange([]int{0, 1, 2, 5, 7, 8})
	spans := HighlightSpans("abcdefghij", &r)
	assert.Equal(t, []Span{{0, 3}, {5, 6}, {7, 9}}, spans)

	assert.Nil(t, HighlightSpans("abc", nil))
}

func TestTextItem(t *testing.T) {
	item := NewTextItem("src/main.go")
	assert.Equal(t, "src/main.go", item.Text())
	assert.Equal(t, "src/main.go", item.Output())
	assert.Nil(t, item.MatchingRanges())

	r := ByteRange(4, 8)
	styled := item.Display(DisplayContext{Text: item.Text(), Matches: &r})
	assert.Equal(t, "src/main.go", styled.Text)
	assert.Equal(t, []Span{{4, 8}}, styled.Highlights)
}
