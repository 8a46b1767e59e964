package models

type ConceptDetectiveRequest struct {
	Transcript string `json:"transcript"`
}

type ConceptDetectiveQuestion struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type ConceptDetectiveLevel struct {
	Title     string                     `json:"title"`
	Story     string                     `json:"story"`
	Questions []ConceptDetectiveQuestion `json:"questions"`
}

type ConceptDetectiveResponse struct {
	Success     bool                    `json:"success"`
	Analogy     string                  `json:"analogy"`
	Description string                  `json:"description"`
	Levels      []ConceptDetectiveLevel `json:"levels"`
	Error       string                  `json:"error,omitempty"`
}

type ConceptDetectiveAnswer struct {
	LevelIndex    int    `json:"levelIndex"`
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
}

type ConceptDetectiveEvaluationRequest struct {
	Transcript string                   `json:"transcript"`
	Answers    []ConceptDetectiveAnswer `json:"answers"`
}

// Scores and Feedback are keyed "levelIndex-questionIndex".
type ConceptDetectiveEvaluationResponse struct {
	Success  bool              `json:"success"`
	Scores   map[string]int    `json:"scores"`
	Feedback map[string]string `json:"feedback"`
	Error    string            `json:"error,omitempty"`
}
