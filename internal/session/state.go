package session

type State int

const (
	StateIdle State = iota
	StateLoading
	StateQuestionDisplayed
	StateSubmitting
	StateEnded
	StateRedirected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateQuestionDisplayed:
		return "question"
	case StateSubmitting:
		return "submitting"
	case StateEnded:
		return "ended"
	case StateRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Terminal states accept no further operations.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateRedirected
}
