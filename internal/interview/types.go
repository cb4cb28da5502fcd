package interview

import (
	"context"
	"time"
)

const (
	DefaultTimeBudget    = 3600
	DefaultRedirectDelay = 3 * time.Second
)

type Question struct {
	ID              int64
	Text            string
	Category        string
	DifficultyScore float64
	Answered        bool
	PreviousAnswer  string
}

type QuestionSet struct {
	SessionID     string
	Questions     []Question
	AnsweredCount int
	PendingCount  int
}

type Postulation struct {
	ID            string
	JobTitle      string
	CompanyName   string
	CurrentStatus string
}

type Evaluation struct {
	QuestionID int64
	Answer     string
	Score      float64
	Feedback   string
	Criteria   map[string]float64
}

type ConsolidatedResult struct {
	SessionID      string
	OverallScore   float64
	CriteriaScores map[string]float64
	Strengths      []string
	Improvements   []string
	Evaluations    []Evaluation
}

// QuestionService returns the question set of a postulation. With generate set
// it creates the set on first use and returns the existing one afterwards.
type QuestionService interface {
	Postulation(ctx context.Context, postulationID string) (Postulation, error)
	Questions(ctx context.Context, postulationID string, generate bool) (QuestionSet, error)
}

type EvaluationService interface {
	SubmitAnswer(ctx context.Context, questionID int64, answer, postulationID string) (Evaluation, error)
	FinalizeSession(ctx context.Context, sessionID string) error
	// ConsolidatedResult returns ErrResultNotFound when the session has no result yet.
	ConsolidatedResult(ctx context.Context, sessionID string) (ConsolidatedResult, error)
}

// Snapshot is a copy of the controller state; mutating it has no effect.
type Snapshot struct {
	Phase            Phase
	PostulationID    string
	SessionID        string
	Postulation      Postulation
	Questions        []Question
	Answers          []string
	Cursor           int
	Draft            string
	RemainingSeconds int
	ClockRunning     bool
	Evaluations      []Evaluation
	Consolidated     *ConsolidatedResult
	Notice           error
}

func (s Snapshot) AnsweredCount() int {
	count := 0
	for _, question := range s.Questions {
		if question.Answered {
			count++
		}
	}
	return count
}

func (s Snapshot) CurrentQuestion() (Question, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Cursor], true
}
