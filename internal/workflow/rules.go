package workflow

import (
	"fmt"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// Rule describes one allowed stage transition and its requirements.
// RequiresApproval marks transitions gated by an external approval chain;
// the chain itself is enforced by the approvals collaborator, not here.
type Rule struct {
	From              types.Stage  `json:"from"`
	To                types.Stage  `json:"to"`
	AllowedRoles      []types.Role `json:"allowed_roles"`
	RequiresNote      bool         `json:"requires_note,omitempty"`
	RequiresScorecard bool         `json:"requires_scorecard,omitempty"`
	RequiresApproval  bool         `json:"requires_approval,omitempty"`
}

// transitionKey identifies a (from, to) pair for O(1) rule lookup.
type transitionKey struct {
	from types.Stage
	to   types.Stage
}

// Graph is the immutable table of allowed stage transitions. It is built
// once at startup and is the single source of truth for legality of a move.
type Graph struct {
	rules map[transitionKey]Rule
}

// NewGraph builds a Graph from a rule list, rejecting malformed tables:
// unknown stages or roles, self-loops, empty role sets, and duplicate
// (from, to) pairs.
func NewGraph(rules []Rule) (*Graph, error) {
	g := &Graph{rules: make(map[transitionKey]Rule, len(rules))}
	for i, r := range rules {
		if !r.From.IsValid() {
			return nil, fmt.Errorf("rule %d: unknown from stage %q", i, r.From)
		}
		if !r.To.IsValid() {
			return nil, fmt.Errorf("rule %d: unknown to stage %q", i, r.To)
		}
		if r.From == r.To {
			return nil, fmt.Errorf("rule %d: self-loop on stage %s", i, r.From)
		}
		if len(r.AllowedRoles) == 0 {
			return nil, fmt.Errorf("rule %d (%s -> %s): empty role set", i, r.From, r.To)
		}
		for _, role := range r.AllowedRoles {
			if !role.IsValid() {
				return nil, fmt.Errorf("rule %d (%s -> %s): unknown role %q", i, r.From, r.To, role)
			}
		}
		key := transitionKey{from: r.From, to: r.To}
		if _, exists := g.rules[key]; exists {
			return nil, fmt.Errorf("rule %d: duplicate transition %s -> %s", i, r.From, r.To)
		}
		g.rules[key] = r
	}
	return g, nil
}

// Lookup returns the rule for (from, to), if one exists.
func (g *Graph) Lookup(from, to types.Stage) (Rule, bool) {
	r, ok := g.rules[transitionKey{from: from, to: to}]
	return r, ok
}

// Len returns the number of transitions in the table.
func (g *Graph) Len() int {
	return len(g.rules)
}

// TransitionsFrom returns the stages reachable in one move from the given
// stage. Order is unspecified.
func (g *Graph) TransitionsFrom(from types.Stage) []types.Stage {
	var out []types.Stage
	for key := range g.rules {
		if key.from == from {
			out = append(out, key.to)
		}
	}
	return out
}

// DefaultRules returns the built-in transition table. Forward moves follow
// the pipeline order with one permitted skip (assessment is optional);
// backward moves step candidates back for re-evaluation and always demand a
// note plus a reason category from the validator.
func DefaultRules() []Rule {
	all := []types.Role{types.RoleRecruiter, types.RoleHiringManager, types.RoleAdmin}
	recruiting := []types.Role{types.RoleRecruiter, types.RoleAdmin}

	return []Rule{
		// Forward progression.
		{From: types.StageNew, To: types.StageScreening, AllowedRoles: recruiting},
		{From: types.StageScreening, To: types.StageHMScreen, AllowedRoles: all},
		{From: types.StageHMScreen, To: types.StageAssessment, AllowedRoles: all},
		{From: types.StageHMScreen, To: types.StageInterview, AllowedRoles: all},
		{From: types.StageAssessment, To: types.StageInterview, AllowedRoles: recruiting},
		{From: types.StageInterview, To: types.StagePanel, AllowedRoles: all, RequiresScorecard: true},
		{From: types.StagePanel, To: types.StageReferenceCheck, AllowedRoles: all, RequiresScorecard: true},
		{From: types.StageReferenceCheck, To: types.StageOffer, AllowedRoles: all, RequiresNote: true, RequiresApproval: true},
		{From: types.StageOffer, To: types.StageHired, AllowedRoles: recruiting, RequiresApproval: true},

		// Backward moves for re-evaluation.
		{From: types.StageHMScreen, To: types.StageScreening, AllowedRoles: all},
		{From: types.StageAssessment, To: types.StageHMScreen, AllowedRoles: all},
		{From: types.StageInterview, To: types.StageScreening, AllowedRoles: recruiting},
		{From: types.StagePanel, To: types.StageInterview, AllowedRoles: all},
		{From: types.StageReferenceCheck, To: types.StagePanel, AllowedRoles: recruiting},
		{From: types.StageOffer, To: types.StageReferenceCheck, AllowedRoles: recruiting},
	}
}
