package workflow

import (
	"strings"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// TransitionContext carries the request-level facts the validator needs
// beyond the (from, to, role) triple.
type TransitionContext struct {
	Comment            string
	ReasonCategory     string
	ScorecardsComplete bool
}

// Validator decides admissibility of stage transitions against a Graph.
type Validator struct {
	graph *Graph
}

// NewValidator creates a Validator over the given transition graph.
func NewValidator(graph *Graph) *Validator {
	return &Validator{graph: graph}
}

// Validate checks whether the actor may move an application from one stage
// to another. Checks run in a fixed order so rejections are deterministic:
// rule existence, then role, then note, then reason category, then
// scorecards. Returns nil when the transition is admissible.
func (v *Validator) Validate(from, to types.Stage, role types.Role, tc TransitionContext) error {
	rule, ok := v.graph.Lookup(from, to)
	if !ok {
		return &ErrNoSuchTransition{From: from, To: to}
	}

	if !roleAllowed(rule.AllowedRoles, role) {
		return &ErrRoleNotPermitted{Role: role, From: from, To: to}
	}

	isBackward := to.Ordinal() < from.Ordinal()
	hasComment := strings.TrimSpace(tc.Comment) != ""

	if (rule.RequiresNote || isBackward) && !hasComment {
		return &ErrNoteRequired{From: from, To: to}
	}

	if isBackward && strings.TrimSpace(tc.ReasonCategory) == "" {
		return &ErrReasonCategoryRequired{From: from, To: to}
	}

	if rule.RequiresScorecard && !tc.ScorecardsComplete {
		return &ErrScorecardsIncomplete{From: from, To: to}
	}

	return nil
}

func roleAllowed(allowed []types.Role, role types.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
