package assessment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-app/internal/bank"
)

const DefaultQuestionCount = 5

type QuestionPicker interface {
	Pick(seed string, n int) ([]bank.Item, error)
}

type QuestionStatus struct {
	Question
	Answered       bool
	PreviousAnswer string
}

type QuestionSet struct {
	SessionID     string
	Questions     []QuestionStatus
	AnsweredCount int
	PendingCount  int
}

type Service struct {
	postulations  PostulationRepository
	interviews    InterviewRepository
	picker        QuestionPicker
	evaluate      Evaluator
	questionCount int
	now           func() time.Time
	logger        *log.Logger

	mu      sync.Mutex
	results map[string]Result
}

func NewService(postulations PostulationRepository, interviews InterviewRepository, picker QuestionPicker, questionCount int, logger *log.Logger) *Service {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		postulations:  postulations,
		interviews:    interviews,
		picker:        picker,
		evaluate:      KeywordEvaluator,
		questionCount: questionCount,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger,
		results:       make(map[string]Result),
	}
}

func (s *Service) CreatePostulation(ctx context.Context, postulation Postulation) (Postulation, error) {
	postulation.ID = strings.TrimSpace(postulation.ID)
	postulation.JobTitle = strings.TrimSpace(postulation.JobTitle)
	postulation.CompanyName = strings.TrimSpace(postulation.CompanyName)
	if postulation.JobTitle == "" {
		return Postulation{}, fmt.Errorf("%w: job_title is required", ErrInvalidInput)
	}
	if postulation.ID == "" {
		postulation.ID = uuid.NewString()
	}
	postulation.Status = StatusApplied
	postulation.CreatedAt = s.now()

	if err := s.postulations.CreatePostulation(ctx, postulation); err != nil {
		return Postulation{}, err
	}
	return postulation, nil
}

func (s *Service) GetPostulation(ctx context.Context, postulationID string) (Postulation, error) {
	postulationID = strings.TrimSpace(postulationID)
	if postulationID == "" {
		return Postulation{}, ErrPostulationNotFound
	}
	return s.postulations.GetPostulation(ctx, postulationID)
}

// GetQuestions returns the question set of a postulation with the stored
// answer state. Without generate a postulation that has no session yields an
// empty set; with generate the session and its questions are created first.
func (s *Service) GetQuestions(ctx context.Context, postulationID string, generate bool) (QuestionSet, error) {
	postulation, err := s.GetPostulation(ctx, postulationID)
	if err != nil {
		return QuestionSet{}, err
	}

	session, err := s.interviews.GetSessionByPostulation(ctx, postulation.ID)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound) && !generate:
		return QuestionSet{}, nil
	case errors.Is(err, ErrSessionNotFound):
		session, err = s.createSession(ctx, postulation)
		if err != nil {
			return QuestionSet{}, err
		}
	default:
		return QuestionSet{}, err
	}

	questions, err := s.interviews.ListQuestions(ctx, session.ID)
	if err != nil {
		return QuestionSet{}, err
	}
	answers, err := s.interviews.ListAnswers(ctx, session.ID)
	if err != nil {
		return QuestionSet{}, err
	}

	answerByQuestion := make(map[int64]Answer, len(answers))
	for _, answer := range answers {
		answerByQuestion[answer.QuestionID] = answer
	}

	set := QuestionSet{
		SessionID: session.ID,
		Questions: make([]QuestionStatus, 0, len(questions)),
	}
	for _, question := range questions {
		status := QuestionStatus{Question: question}
		if answer, ok := answerByQuestion[question.ID]; ok {
			status.Answered = true
			status.PreviousAnswer = answer.Text
			set.AnsweredCount++
		} else {
			set.PendingCount++
		}
		set.Questions = append(set.Questions, status)
	}
	return set, nil
}

func (s *Service) createSession(ctx context.Context, postulation Postulation) (Session, error) {
	items, err := s.picker.Pick(postulation.ID, s.questionCount)
	if err != nil {
		return Session{}, fmt.Errorf("pick questions: %w", err)
	}

	session := Session{
		ID:            uuid.NewString(),
		PostulationID: postulation.ID,
		CreatedAt:     s.now(),
	}
	questions := make([]Question, 0, len(items))
	for idx, item := range items {
		questions = append(questions, Question{
			SessionID:  session.ID,
			Position:   idx,
			Text:       item.Text,
			Category:   item.Category,
			Difficulty: item.Difficulty,
			Keywords:   item.Keywords,
		})
	}

	stored, err := s.interviews.CreateSession(ctx, session, questions)
	if err != nil {
		return Session{}, err
	}
	if stored.ID == session.ID {
		s.logger.Printf("created session %s for postulation %s with %d questions", stored.ID, postulation.ID, len(questions))
		if err := s.postulations.UpdatePostulationStatus(ctx, postulation.ID, StatusInterviewing); err != nil {
			return Session{}, err
		}
	}
	return stored, nil
}

// SubmitAnswer evaluates answer and stores it, replacing any earlier answer to
// the same question.
func (s *Service) SubmitAnswer(ctx context.Context, questionID int64, answer, postulationID string) (Answer, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Answer{}, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	question, err := s.interviews.GetQuestion(ctx, questionID)
	if err != nil {
		return Answer{}, err
	}
	session, err := s.interviews.GetSession(ctx, question.SessionID)
	if err != nil {
		return Answer{}, err
	}
	if session.PostulationID != strings.TrimSpace(postulationID) {
		return Answer{}, ErrQuestionNotFound
	}
	if session.Finalized() {
		return Answer{}, ErrSessionFinalized
	}

	evaluation := s.evaluate(question, answer)
	stored := Answer{
		QuestionID:  question.ID,
		SessionID:   session.ID,
		Text:        answer,
		Score:       evaluation.Score,
		Feedback:    evaluation.Feedback,
		Criteria:    evaluation.Criteria,
		SubmittedAt: s.now(),
	}
	if err := s.interviews.UpsertAnswer(ctx, stored); err != nil {
		return Answer{}, err
	}
	return stored, nil
}

// FinalizeSession closes a session for further answers. Finalizing twice is
// not an error.
func (s *Service) FinalizeSession(ctx context.Context, sessionID string) error {
	session, err := s.interviews.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return err
	}
	if session.Finalized() {
		return nil
	}

	if err := s.interviews.FinalizeSession(ctx, session.ID, s.now()); err != nil {
		return err
	}
	s.logger.Printf("finalized session %s", session.ID)
	return s.postulations.UpdatePostulationStatus(ctx, session.PostulationID, StatusInterviewed)
}

// GetResult returns the consolidated result of a finalized session, or
// ErrResultNotFound when the session is unknown or still open.
func (s *Service) GetResult(ctx context.Context, sessionID string) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if result, ok := s.getCachedResult(sessionID); ok {
		return result, nil
	}

	session, err := s.interviews.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return Result{}, ErrResultNotFound
	}
	if err != nil {
		return Result{}, err
	}
	if !session.Finalized() {
		return Result{}, ErrResultNotFound
	}

	questions, err := s.interviews.ListQuestions(ctx, session.ID)
	if err != nil {
		return Result{}, err
	}
	answers, err := s.interviews.ListAnswers(ctx, session.ID)
	if err != nil {
		return Result{}, err
	}

	result := consolidate(session.ID, questions, answers)
	s.setCachedResult(result)
	return result, nil
}
