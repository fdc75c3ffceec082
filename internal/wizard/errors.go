package wizard

import "errors"

var (
	// ErrWorkerNotSelected is returned when leaving step 1 without a patient name.
	ErrWorkerNotSelected = errors.New("wizard: no worker selected")
	// ErrNoSuchStep is returned when moving before the first or past the last step.
	ErrNoSuchStep = errors.New("wizard: no such step")
	// ErrNotAtFinalStep is returned by Submit before the summary step.
	ErrNotAtFinalStep = errors.New("wizard: submit is only allowed at the final step")
	// ErrAlreadySubmitted is returned by Submit after a successful submission.
	ErrAlreadySubmitted = errors.New("wizard: already submitted")
	// ErrRowIndex is returned for an out of range table row.
	ErrRowIndex = errors.New("wizard: row index out of range")
	// ErrUnknownField is returned for a table column that does not exist.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrUnknownChecklist is returned for a checklist category that does not exist.
	ErrUnknownChecklist = errors.New("wizard: unknown checklist")
)
