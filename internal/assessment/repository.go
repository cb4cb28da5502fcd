package assessment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPostulationNotFound = errors.New("postulation not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrResultNotFound      = errors.New("result not found")
	ErrSessionFinalized    = errors.New("session already finalized")
	ErrInvalidInput        = errors.New("invalid input")
)

const (
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusInterviewed  = "interviewed"
)

type Postulation struct {
	ID          string
	JobTitle    string
	CompanyName string
	Status      string
	CreatedAt   time.Time
}

type Session struct {
	ID            string
	PostulationID string
	CreatedAt     time.Time
	FinalizedAt   time.Time
}

func (s Session) Finalized() bool {
	return !s.FinalizedAt.IsZero()
}

type Question struct {
	ID         int64
	SessionID  string
	Position   int
	Text       string
	Category   string
	Difficulty float64
	Keywords   []string
}

type Answer struct {
	QuestionID  int64
	SessionID   string
	Text        string
	Score       float64
	Feedback    string
	Criteria    map[string]float64
	SubmittedAt time.Time
}

type PostulationRepository interface {
	CreatePostulation(ctx context.Context, postulation Postulation) error
	GetPostulation(ctx context.Context, postulationID string) (Postulation, error)
	UpdatePostulationStatus(ctx context.Context, postulationID, status string) error
}

type InterviewRepository interface {
	// CreateSession stores the session with its questions unless the
	// postulation already has one, and returns whichever session is stored.
	CreateSession(ctx context.Context, session Session, questions []Question) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
	GetSessionByPostulation(ctx context.Context, postulationID string) (Session, error)
	ListQuestions(ctx context.Context, sessionID string) ([]Question, error)
	GetQuestion(ctx context.Context, questionID int64) (Question, error)
	UpsertAnswer(ctx context.Context, answer Answer) error
	ListAnswers(ctx context.Context, sessionID string) ([]Answer, error)
	FinalizeSession(ctx context.Context, sessionID string, finalizedAt time.Time) error
}
