package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short query", content: "main"},
		{name: "empty string", content: ""},
		{name: "query with syntax", content: "^src 'handler | router go$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestValidateHistoryEntry(t *testing.T) {
	assert.ErrorIs(t, ValidateHistoryEntry(nil), ErrInvalidHistoryEntry)

	err := ValidateHistoryEntry(&HistoryEntry{Timestamp: time.Now()})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	err = ValidateHistoryEntry(&HistoryEntry{Query: "x", Timestamp: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	assert.NoError(t, ValidateHistoryEntry(&HistoryEntry{Query: "x", Timestamp: time.Now()}))
}

func TestCaseMatching(t *testing.T) {
	assert.True(t, CaseSmart.Sensitive("Main"))
	assert.False(t, CaseSmart.Sensitive("main"))
	assert.True(t, CaseRespect.Sensitive("main"))
	assert.False(t, CaseIgnore.Sensitive("MAIN"))

	cm, err := ParseCaseMatching("Ignore")
	assert.NoError(t, err)
	assert.Equal(t, CaseIgnore, cm)

	_, err = ParseCaseMatching("sometimes")
	assert.ErrorIs(t, err, ErrUnknownCaseMatching)
}
