package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

func TestDefaultTeams_AreDisjoint(t *testing.T) {
	teams, err := LoadTeams("")
	require.NoError(t, err)
	assert.Len(t, teams.Teams, 5)
	assert.Empty(t, teams.Overlaps(), "a login must belong to at most one team")
}

func TestTeams_Overlaps(t *testing.T) {
	teams := &Teams{Teams: []Team{
		{Name: "a", Members: []string{"alice", "bob"}},
		{Name: "b", Members: []string{"bob", "carol"}},
	}}
	assert.Equal(t, []string{"bob"}, teams.Overlaps())
}

func TestDefaultCatalog_BaseBranches(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)

	bases := make(map[string][]string)
	for _, r := range catalog.Repositories {
		bases[r.Name] = r.BaseBranches()
	}
	assert.Equal(t, []string{"master"}, bases["ebanx/pay"])
	assert.Equal(t, []string{"develop"}, bases["ebanx/ios"])
	assert.Equal(t, []string{"develop"}, bases["ebanx/woocommerce-gateway-ebanx"])
	assert.Equal(t, []string{"staging-v2", "master"}, bases["ebanx/everest"])
}

func TestLoadCatalog_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "no repositories", content: "repositories: []", errMsg: "no repositories"},
		{name: "missing owner", content: "repositories:\n  - name: pay\n", errMsg: "owner/name"},
		{name: "unknown ecosystem", content: "repositories:\n  - name: o/r\n    ecosystem: web\n", errMsg: "must be a valid value"},
		{name: "duplicate", content: "repositories:\n  - name: o/r\n  - name: o/r\n", errMsg: "listed twice"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			_, err := LoadCatalog(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestEnv_Tokens(t *testing.T) {
	env := &Env{AccessToken: "a", AccessTokens: []string{"b", " a ", ""}}
	tokens, err := env.Tokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tokens)

	_, err = (&Env{}).Tokens()
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
