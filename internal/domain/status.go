package domain

// StepState is the lifecycle state of one lookup step
type StepState string

const (
	StepPending StepState = "pending"
	StepLoading StepState = "loading"
	StepDone    StepState = "done"
	StepError   StepState = "error"
)

// Step keys are stable across a lookup: a later update for the same key
// replaces the earlier status instead of appending a duplicate.
const (
	StepPBCompany       = "PB Company"
	StepPBDeals         = "PB Deals"
	StepHarmonicSearch  = "Harmonic Search"
	StepHarmonicCompany = "Harmonic Company"
	StepCredits         = "Credits"
	StepFatal           = "Error"
)

// StepStatus reports the state of one named lookup step
type StepStatus struct {
	Step   string
	State  StepState
	Detail string
}

// StatusSink receives step status transitions as a lookup progresses.
// Each transition is delivered before the next step starts.
type StatusSink interface {
	Update(step string, state StepState, detail string)
}

// StatusSinkFunc adapts a function to the StatusSink interface
type StatusSinkFunc func(step string, state StepState, detail string)

// Update calls the wrapped function
func (f StatusSinkFunc) Update(step string, state StepState, detail string) {
	f(step, state, detail)
}
