package backend

type postulationResponse struct {
	ID            string `json:"id"`
	JobTitle      string `json:"job_title"`
	CompanyName   string `json:"company_name"`
	CurrentStatus string `json:"current_status"`
}

type questionItem struct {
	ID              int64   `json:"id"`
	Text            string  `json:"text"`
	Category        string  `json:"category"`
	DifficultyScore float64 `json:"difficulty_score"`
	Answered        bool    `json:"answered"`
	PreviousAnswer  string  `json:"previous_answer,omitempty"`
}

type questionsResponse struct {
	SessionID     string         `json:"session_id"`
	Questions     []questionItem `json:"questions"`
	AnsweredCount int            `json:"answered_count"`
	PendingCount  int            `json:"pending_count"`
}

type evaluationRequest struct {
	QuestionID    int64  `json:"question_id"`
	Answer        string `json:"answer"`
	PostulationID string `json:"postulation_id"`
}

type evaluationResponse struct {
	QuestionID int64              `json:"question_id"`
	Answer     string             `json:"answer"`
	Score      float64            `json:"score"`
	Feedback   string             `json:"feedback"`
	Criteria   map[string]float64 `json:"criteria,omitempty"`
}

type resultResponse struct {
	SessionID      string               `json:"session_id"`
	OverallScore   float64              `json:"overall_score"`
	CriteriaScores map[string]float64   `json:"criteria_scores"`
	Strengths      []string             `json:"strengths"`
	Improvements   []string             `json:"improvements"`
	Evaluations    []evaluationResponse `json:"evaluations"`
}

type errorResponse struct {
	Error string `json:"error"`
}
