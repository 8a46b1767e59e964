package models

// PerceptualModes is the canonical enumeration order for perceptual-mode
// keys. Dominant-style selection breaks ties by this order, so it must stay
// stable.
var PerceptualModes = []string{"visual", "auditory", "reading_writing", "kinesthetic"}

var CognitiveStyles = []string{"analytical", "intuitive", "sequential", "global"}

var SocialPreferences = []string{"independent", "collaborative", "competitive", "mentored"}

var InstructionStyles = []string{"structured", "exploratory", "example_driven", "theory_first"}

var AssessmentPreferences = []string{"quizzes", "projects", "discussion", "self_review"}

// LearningStyleProfile holds per-category learning-style weights. Each
// category's weights are non-negative and sum to 1 at rest.
type LearningStyleProfile struct {
	PerceptualMode       map[string]float64 `json:"perceptual_mode"`
	CognitiveStyle       map[string]float64 `json:"cognitive_style"`
	SocialPreference     map[string]float64 `json:"social_preference"`
	InstructionStyle     map[string]float64 `json:"instruction_style"`
	AssessmentPreference map[string]float64 `json:"assessment_preference"`
	LearningMetrics      map[string]float64 `json:"learning_metrics"`
}

// NewLearningStyleProfile returns a profile seeded with uniform priors
// (0.25 per key in every 4-way category) and zeroed metrics.
func NewLearningStyleProfile() *LearningStyleProfile {
	return &LearningStyleProfile{
		PerceptualMode:       uniformWeights(PerceptualModes),
		CognitiveStyle:       uniformWeights(CognitiveStyles),
		SocialPreference:     uniformWeights(SocialPreferences),
		InstructionStyle:     uniformWeights(InstructionStyles),
		AssessmentPreference: uniformWeights(AssessmentPreferences),
		LearningMetrics: map[string]float64{
			"completion_rate":  0.0,
			"time_to_learn":    0.0,
			"engagement_score": 0.0,
		},
	}
}

func uniformWeights(keys []string) map[string]float64 {
	m := make(map[string]float64, len(keys))
	for _, k := range keys {
		m[k] = 1.0 / float64(len(keys))
	}
	return m
}

// Categories returns the five style categories by name, in a stable order.
func (p *LearningStyleProfile) Categories() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"perceptual_mode":       p.PerceptualMode,
		"cognitive_style":       p.CognitiveStyle,
		"social_preference":     p.SocialPreference,
		"instruction_style":     p.InstructionStyle,
		"assessment_preference": p.AssessmentPreference,
	}
}

// TopicTrace is a running mastery estimate for one topic.
type TopicTrace struct {
	Mastery float64 `json:"mastery"` // in [0,1]
	Weight  float64 `json:"weight"`  // > 0
}

// KnowledgeState maps topic labels to mastery traces. It is derived from
// conversation content and folded into completion_rate; it is not an
// independently authoritative record.
type KnowledgeState struct {
	Topics map[string]TopicTrace `json:"topics"`
}

// NewKnowledgeState returns an empty knowledge state.
func NewKnowledgeState() *KnowledgeState {
	return &KnowledgeState{Topics: make(map[string]TopicTrace)}
}

// StudentProfileResponse is the payload of the profile endpoint.
type StudentProfileResponse struct {
	Success        bool                  `json:"success"`
	Profile        *LearningStyleProfile `json:"profile,omitempty"`
	KnowledgeState *KnowledgeState       `json:"knowledge_state,omitempty"`
	Error          string                `json:"error,omitempty"`
}
