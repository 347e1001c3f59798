package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/hiring-pipeline/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRulesFile_Valid(t *testing.T) {
	path := writeRulesFile(t, `[
		{"from": "NEW", "to": "SCREENING", "allowed_roles": ["RECRUITER"]},
		{"from": "SCREENING", "to": "HM_SCREEN", "allowed_roles": ["RECRUITER", "HIRING_MANAGER"], "requires_note": true}
	]`)

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, types.StageNew, rules[0].From)
	assert.Equal(t, types.StageScreening, rules[0].To)
	assert.Equal(t, []types.Role{types.RoleRecruiter}, rules[0].AllowedRoles)
	assert.False(t, rules[0].RequiresNote)
	assert.True(t, rules[1].RequiresNote)

	// Loaded rules must survive graph construction.
	_, err = NewGraph(rules)
	assert.NoError(t, err)
}

func TestLoadRulesFile_SchemaRejection(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown stage", content: `[{"from": "NEW", "to": "LIMBO", "allowed_roles": ["RECRUITER"]}]`},
		{name: "unknown role", content: `[{"from": "NEW", "to": "SCREENING", "allowed_roles": ["JANITOR"]}]`},
		{name: "missing allowed_roles", content: `[{"from": "NEW", "to": "SCREENING"}]`},
		{name: "empty table", content: `[]`},
		{name: "not an array", content: `{"from": "NEW"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRulesFile(t, tt.content)
			_, err := LoadRulesFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "rejected")
		})
	}
}

func TestLoadRulesFile_MissingFile(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
