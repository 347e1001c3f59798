package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/hiring-pipeline/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageRulesSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "stage_rules.schema.json"))
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", schema["$schema"])
	assert.Equal(t, "array", schema["type"])
}

func TestStageRulesSchema_AcceptsDefaultShape(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "stage_rules.schema.json"))
	require.NoError(t, err)

	rules := `[
		{"from": "NEW", "to": "SCREENING", "allowed_roles": ["RECRUITER"]},
		{"from": "INTERVIEW", "to": "PANEL", "allowed_roles": ["RECRUITER", "HIRING_MANAGER"], "requires_scorecard": true},
		{"from": "OFFER", "to": "HIRED", "allowed_roles": ["RECRUITER", "ADMIN"], "requires_note": true, "requires_approval": true}
	]`

	assert.NoError(t, schemas.ValidateJSONString(string(data), rules))
}

func TestStageRulesSchema_RejectsBadEntries(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "stage_rules.schema.json"))
	require.NoError(t, err)

	bad := []string{
		`[{"from": "NEW", "to": "SCREENING", "allowed_roles": []}]`,
		`[{"from": "NEW", "allowed_roles": ["RECRUITER"]}]`,
		`[{"from": "NEW", "to": "SCREENING", "allowed_roles": ["RECRUITER"], "extra": true}]`,
	}

	for _, doc := range bad {
		assert.Error(t, schemas.ValidateJSONString(string(data), doc))
	}
}
