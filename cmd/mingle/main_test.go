package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/userdata"
)

// captureStdout runs fn and returns what it printed
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestCommandTree(t *testing.T) {
	want := []string{
		"trending", "search", "mood", "discover", "detail",
		"favorites", "history", "ratings", "recent",
		"login", "signup", "logout", "whoami", "profile", "follow", "unfollow",
		"config", "version",
	}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, path := range [][]string{
		{"favorites", "add"}, {"favorites", "rm"},
		{"history", "rm"}, {"history", "clear"},
		{"ratings", "set"}, {"ratings", "update"}, {"ratings", "rm"}, {"ratings", "stats"},
		{"recent", "clear"}, {"config", "init"}, {"config", "path"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[1], cmd.Name())
	}
}

func TestKindArg(t *testing.T) {
	kind, err := kindArg(nil)
	require.NoError(t, err)
	assert.Equal(t, content.KindMovie, kind)

	kind, err = kindArg([]string{"shows"})
	require.NoError(t, err)
	assert.Equal(t, content.KindTV, kind)

	_, err = kindArg([]string{"podcast"})
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestRender(t *testing.T) {
	year := 1999
	items := []content.ContentItem{{ID: "603", Kind: content.KindMovie, Title: "The Matrix", ReleaseYear: &year}}

	t.Cleanup(func() { outFormat = "text" })

	t.Run("text", func(t *testing.T) {
		outFormat = "text"
		out := captureStdout(t, func() { require.NoError(t, printItems(items)) })
		assert.Contains(t, out, "1. The Matrix (1999)")
		assert.Contains(t, out, "ID: movie/603")
	})

	t.Run("yaml", func(t *testing.T) {
		outFormat = "yaml"
		out := captureStdout(t, func() { require.NoError(t, printItems(items)) })

		var decoded []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "The Matrix", decoded[0]["title"])
		assert.Equal(t, "movie", decoded[0]["media_kind"])
		assert.NotContains(t, decoded[0], "poster_url")
	})

	t.Run("unknown format", func(t *testing.T) {
		outFormat = "xml"
		assert.Error(t, printItems(items))
	})

	t.Run("empty", func(t *testing.T) {
		outFormat = "text"
		out := captureStdout(t, func() { require.NoError(t, printItems(nil)) })
		assert.Equal(t, "No results.\n", out)
	})
}

func TestParseRating(t *testing.T) {
	r, err := parseRating("7.5")
	require.NoError(t, err)
	assert.Equal(t, 7.5, r)

	for _, bad := range []string{"NaN", "Inf", "0", "11", "five"} {
		_, err := parseRating(bad)
		assert.Error(t, err, bad)
	}
}

func TestReportSaved(t *testing.T) {
	line := func(r *userdata.Rating) string { return fmt.Sprintf("Rated %s", r.Title) }

	t.Run("refresh failure still confirms and fails", func(t *testing.T) {
		refreshErr := errors.New("GET /ratings: HTTP 500")
		var err error
		out := captureStdout(t, func() {
			err = reportSaved(&userdata.Rating{Record: userdata.Record{Title: "Dune"}}, refreshErr, line)
		})
		assert.Equal(t, "Rated Dune\n", out)
		assert.ErrorIs(t, err, refreshErr)
	})

	t.Run("rejected save prints nothing", func(t *testing.T) {
		var err error
		out := captureStdout(t, func() {
			err = reportSaved(nil, userdata.ErrInvalidRating, line)
		})
		assert.Empty(t, out)
		assert.ErrorIs(t, err, userdata.ErrInvalidRating)
	})
}

func TestPromptLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  bea  \n"))

	v, err := promptLine(reader, "Username: ", "preset")
	require.NoError(t, err)
	assert.Equal(t, "preset", v)

	var got string
	out := captureStdout(t, func() { got, err = promptLine(reader, "Username: ", "") })
	require.NoError(t, err)
	assert.Equal(t, "bea", got)
	assert.Equal(t, "Username: ", out)

	_, err = promptLine(reader, "Email: ", "")
	assert.Error(t, err)
}
