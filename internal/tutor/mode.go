package tutor

import "fmt"

// Mode is the closed set of tutoring personas. Each endpoint selects one
// explicitly; there is no string-flag dispatch.
type Mode int

const (
	// ModeSocratic guides the student with open-ended questions.
	ModeSocratic Mode = iota
	// ModeDirect answers factually, bound to the transcript.
	ModeDirect
	// ModeAdaptive picks its instruction style from the student's dominant
	// perceptual mode.
	ModeAdaptive
)

func (m Mode) String() string {
	switch m {
	case ModeSocratic:
		return "socratic"
	case ModeDirect:
		return "direct"
	case ModeAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Temperature returns the sampling temperature for the mode: lower for
// factual answers, higher for Socratic and adaptive dialogue.
func (m Mode) Temperature() float32 {
	if m == ModeDirect {
		return 0.3
	}
	return 0.7
}
