package interview

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseGenerating
	PhaseAnswering
	PhaseSubmitting
	PhaseFinalizing
	PhaseCompleted
	PhaseErrored
)

var phaseNames = [...]string{
	PhaseLoading:    "loading",
	PhaseGenerating: "generating",
	PhaseAnswering:  "answering",
	PhaseSubmitting: "submitting",
	PhaseFinalizing: "finalizing",
	PhaseCompleted:  "completed",
	PhaseErrored:    "errored",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Active reports whether the session clock runs and completion may start.
func (p Phase) Active() bool {
	return p == PhaseAnswering || p == PhaseSubmitting
}

func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseErrored
}
