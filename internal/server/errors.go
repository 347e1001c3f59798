package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/hiring-pipeline/internal/scheduling"
	"github.com/jonathan/hiring-pipeline/internal/workflow"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
//
// Not-found lookups map to 404. Role denials map to 403. Transition rule
// violations map to 422: the request was well-formed but the workflow state
// refuses it. Races and repeated terminal actions map to 409 so clients
// retry with fresh state instead of fixing the request.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *workflow.ErrApplicationNotFound,
		*scheduling.ErrApplicationNotFound,
		*scheduling.ErrInterviewNotFound,
		*scheduling.ErrScorecardNotFound:
		return http.StatusNotFound
	case *workflow.ErrRoleNotPermitted:
		return http.StatusForbidden
	case *workflow.ErrNoSuchTransition,
		*workflow.ErrNoteRequired,
		*workflow.ErrReasonCategoryRequired,
		*workflow.ErrScorecardsIncomplete:
		return http.StatusUnprocessableEntity
	case *workflow.ErrStageConflict,
		*workflow.ErrAlreadyRejected,
		*workflow.ErrNotActive,
		*scheduling.ErrPanelConflict,
		*scheduling.ErrAlreadyCancelled,
		*scheduling.ErrInterviewClosed,
		*scheduling.ErrScorecardClosed:
		return http.StatusConflict
	case *ErrValidation, *scheduling.ErrInvalidInterval:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
