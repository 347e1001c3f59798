package workflow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/hiring-pipeline/internal/schemas"
)

// LoadRulesFile reads a transition rule table from a JSON file, validating it
// against the stage rules schema before parsing. Used to override
// DefaultRules at startup; the returned rules still go through NewGraph's
// structural checks.
func LoadRulesFile(path string) ([]Rule, error) {
	schemaPath := schemas.ResolveSchemaPath(schemas.StageRulesSchemaPath)
	if schemaPath == "" {
		return nil, fmt.Errorf("stage rules schema not found: %s", schemas.StageRulesSchemaPath)
	}

	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		return nil, fmt.Errorf("rules file %s rejected: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	return rules, nil
}
