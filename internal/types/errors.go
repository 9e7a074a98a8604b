package types

import "fmt"

// ValidationError reports bad input shape or range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// InvalidJobDefinitionError reports a job that cannot be scored, e.g. one with no
// required skills.
type InvalidJobDefinitionError struct {
	JobID   string
	Message string
}

func (e *InvalidJobDefinitionError) Error() string {
	if e.JobID != "" {
		return fmt.Sprintf("invalid job definition %s: %s", e.JobID, e.Message)
	}
	return fmt.Sprintf("invalid job definition: %s", e.Message)
}

// InvalidTransitionError reports a lifecycle guard violation.
type InvalidTransitionError struct {
	CandidateID string
	JobID       string
	From        LifecycleState
	Action      string
	Reason      string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("cannot %s candidate %s for job %s from state %s", e.Action, e.CandidateID, e.JobID, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ConflictError reports an operation that clashes with the current state of an entity,
// such as editing a closed job or reusing an existing id.
type ConflictError struct {
	Kind    string
	ID      string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.ID, e.Message)
}
