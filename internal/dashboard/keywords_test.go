package dashboard_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordMatcher_Priority(t *testing.T) {
	t.Parallel()

	m := dashboard.NewKeywordMatcher(dashboard.DefaultKeywords())

	tests := []struct {
		name        string
		title, body string
		want        string
		ok          bool
	}{
		{"hate beats misinformation", "Rumeur de massacre", "", dashboard.AlertHate, true},
		{"misinformation beats toxicity", "Une insulte", "et une fake news", dashboard.AlertMisinformation, true},
		{"toxicity", "Quelle honte", "", dashboard.AlertSensitive, true},
		{"accents folded", "GENOCIDE annoncé", "", dashboard.AlertHate, true},
		{"html stripped", "Titre", "<p>une <b>intox</b></p>", dashboard.AlertMisinformation, true},
		{"no match", "Conseil des ministres", "Le budget est adopté", "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := m.Classify(tt.title, tt.body)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordMatcher_Empty(t *testing.T) {
	t.Parallel()

	m := dashboard.NewKeywordMatcher(dashboard.KeywordLists{})
	_, ok := m.Classify("massacre", "")
	assert.False(t, ok)
}

func TestLoadKeywords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yml")
	require.NoError(t, os.WriteFile(path, []byte("hate:\n  - pogrom\n"), 0o600))

	lists, err := dashboard.LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pogrom"}, lists.Hate)
	assert.Equal(t, dashboard.DefaultKeywords().Toxicity, lists.Toxicity)

	m := dashboard.NewKeywordMatcher(lists)
	got, ok := m.Classify("Un pogrom", "")
	require.True(t, ok)
	assert.Equal(t, dashboard.AlertHate, got)
}

func TestLoadKeywords_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := dashboard.LoadKeywords(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yml")
	require.NoError(t, os.WriteFile(empty, []byte("other: [x]\n"), 0o600))
	_, err = dashboard.LoadKeywords(empty)
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("hate: [unterminated\n"), 0o600))
	_, err = dashboard.LoadKeywords(bad)
	require.Error(t, err)
}

func TestLoadKeywords_DefaultsWithoutPath(t *testing.T) {
	t.Parallel()

	lists, err := dashboard.LoadKeywords("")
	require.NoError(t, err)
	assert.Equal(t, dashboard.DefaultKeywords(), lists)
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain text", dashboard.StripHTML("plain text"))
	assert.Equal(t, "Une rumeur circule", dashboard.StripHTML("<p>Une <b>rumeur</b> circule</p>"))
	assert.Equal(t, "a & b", dashboard.StripHTML("a &amp; b"))
}

func TestFoldText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "genocide a ouagadougou", dashboard.FoldText("Génocide à Ouagadougou"))
}
