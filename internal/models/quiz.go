package models

type SummaryRequest struct {
	Transcript string `json:"transcript"`
}

type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

type QuizRequest struct {
	Transcript   string `json:"transcript"`
	NumQuestions int    `json:"num_questions"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // 0-based index into Options
}

type QuizResponse struct {
	Success   bool           `json:"success"`
	Questions []QuizQuestion `json:"questions"`
}

type PDFSummaryResponse struct {
	Success    bool           `json:"success"`
	Summary    string         `json:"summary"`
	Questions  []QuizQuestion `json:"questions"`
	Transcript string         `json:"transcript"`
	Error      string         `json:"error,omitempty"`
}
