package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(input), &out)
	err := app.Run(append([]string{"sift"}, args...))
	return out.String(), err
}

func TestFilter(t *testing.T) {
	input := "apple\nbanana\ncherry\n"

	t.Run("exact term", func(t *testing.T) {
		out, err := run(t, input, "--exact", "-f", "an")
		require.NoError(t, err)
		assert.Equal(t, "banana\n", out)
	})

	t.Run("empty query prints everything in order", func(t *testing.T) {
		out, err := run(t, input)
		require.NoError(t, err)
		assert.Equal(t, input, out)
	})

	t.Run("no match", func(t *testing.T) {
		out, err := run(t, input, "-f", "zzz")
		assert.ErrorIs(t, err, errNoMatch)
		assert.Empty(t, out)
	})

	t.Run("limit", func(t *testing.T) {
		out, err := run(t, input, "--limit", "2")
		require.NoError(t, err)
		assert.Equal(t, "apple\nbanana\n", out)
	})

	t.Run("print query and NUL output", func(t *testing.T) {
		out, err := run(t, input, "--exact", "-f", "ch", "--print-query", "--print0")
		require.NoError(t, err)
		assert.Equal(t, "ch\x00cherry\x00", out)
	})

	t.Run("read0", func(t *testing.T) {
		out, err := run(t, "one\x00two\x00", "--read0", "--exact", "-f", "tw")
		require.NoError(t, err)
		assert.Equal(t, "two\n", out)
	})

	t.Run("regex", func(t *testing.T) {
		out, err := run(t, input, "--regex", "-f", "^b.*a$")
		require.NoError(t, err)
		assert.Equal(t, "banana\n", out)
	})
}

func TestFilter_Fields(t *testing.T) {
	input := "ID NAME\n1 alice\n2 bob\n"

	out, err := run(t, input, "--header-lines", "1", "--print-header", "--with-nth", "2", "--exact", "-f", "bo")
	require.NoError(t, err)
	assert.Equal(t, "ID NAME\n2 bob\n", out)

	// The id column is not part of the matched text.
	_, err = run(t, input, "--header-lines", "1", "--with-nth", "2", "--exact", "-f", "2")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestFilter_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"log level", []string{"--log-level", "loud"}, "invalid log level"},
		{"case", []string{"--case", "upper"}, "case"},
		{"tiebreak", []string{"--tiebreak", "score,color"}, "criteria"},
		{"algorithm", []string{"--algo", "v9"}, "algorithm"},
		{"nth", []string{"--nth", "0"}, "field range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "a\n", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHistoryCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	input := "alpha\nbeta\n"

	_, err := run(t, input, "--history", dir, "--exact", "-f", "al")
	require.NoError(t, err)
	_, err = run(t, input, "--history", dir, "--exact", "-f", "be")
	require.NoError(t, err)

	out, err := run(t, "", "--history", dir, "history", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\tbe"))
	assert.True(t, strings.HasSuffix(lines[1], "\tal"))

	out, err = run(t, "", "--history", dir, "history", "clear")
	require.NoError(t, err)
	assert.Equal(t, "history cleared\n", out)

	out, err = run(t, "", "--history", dir, "history", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHistoryCommands_RequirePath(t *testing.T) {
	t.Setenv("SIFT_HISTORY", "")
	_, err := run(t, "", "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history database path is required")
}
