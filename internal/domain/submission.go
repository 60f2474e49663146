package domain

// SubmissionState gates re-entrant submits: a session has at most one
// in-flight order construction at a time.
type SubmissionState int32

const (
	SubmissionIdle SubmissionState = iota
	SubmissionSubmitting
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}
