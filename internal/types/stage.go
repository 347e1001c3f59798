// Package types provides type definitions for structured data used throughout the hiring-pipeline system.
package types

// Stage represents a candidate's position in the hiring pipeline.
type Stage string

// Pipeline stages in progression order.
const (
	StageNew            Stage = "NEW"
	StageScreening      Stage = "SCREENING"
	StageHMScreen       Stage = "HM_SCREEN"
	StageAssessment     Stage = "ASSESSMENT"
	StageInterview      Stage = "INTERVIEW"
	StagePanel          Stage = "PANEL"
	StageReferenceCheck Stage = "REFERENCE_CHECK"
	StageOffer          Stage = "OFFER"
	StageHired          Stage = "HIRED"
)

// stageOrder maps each stage to its position in the pipeline.
// A transition to a lower ordinal is a backward transition.
var stageOrder = map[Stage]int{
	StageNew:            0,
	StageScreening:      1,
	StageHMScreen:       2,
	StageAssessment:     3,
	StageInterview:      4,
	StagePanel:          5,
	StageReferenceCheck: 6,
	StageOffer:          7,
	StageHired:          8,
}

// AllStages returns every pipeline stage in progression order.
func AllStages() []Stage {
	return []Stage{
		StageNew, StageScreening, StageHMScreen, StageAssessment,
		StageInterview, StagePanel, StageReferenceCheck, StageOffer, StageHired,
	}
}

// Ordinal returns the stage's position in the pipeline, or -1 for unknown stages.
func (s Stage) Ordinal() int {
	ord, ok := stageOrder[s]
	if !ok {
		return -1
	}
	return ord
}

// IsValid reports whether s is a known pipeline stage.
func (s Stage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

func (s Stage) String() string {
	return string(s)
}

// Role represents the actor role attempting an operation.
type Role string

// Actor roles recognized by the workflow engine.
const (
	RoleRecruiter     Role = "RECRUITER"
	RoleHiringManager Role = "HIRING_MANAGER"
	RoleInterviewer   Role = "INTERVIEWER"
	RoleAdmin         Role = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleRecruiter, RoleHiringManager, RoleInterviewer, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ApplicationStatus represents the overall status of an application,
// orthogonal to its pipeline stage.
type ApplicationStatus string

// Application statuses. An application leaves ACTIVE at most once.
const (
	StatusActive        ApplicationStatus = "ACTIVE"
	StatusRejected      ApplicationStatus = "REJECTED"
	StatusWithdrawn     ApplicationStatus = "WITHDRAWN"
	StatusOfferAccepted ApplicationStatus = "OFFER_ACCEPTED"
	StatusOfferDeclined ApplicationStatus = "OFFER_DECLINED"
)

// IsTerminal reports whether the status permits no further status changes.
func (s ApplicationStatus) IsTerminal() bool {
	return s != StatusActive
}
