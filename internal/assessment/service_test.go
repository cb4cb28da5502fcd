package assessment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"interview-app/internal/bank"
)

type fakePostulationRepo struct {
	byID        map[string]Postulation
	statusCalls []string
}

func newFakePostulationRepo() *fakePostulationRepo {
	return &fakePostulationRepo{byID: make(map[string]Postulation)}
}

func (f *fakePostulationRepo) CreatePostulation(_ context.Context, postulation Postulation) error {
	f.byID[postulation.ID] = postulation
	return nil
}

func (f *fakePostulationRepo) GetPostulation(_ context.Context, postulationID string) (Postulation, error) {
	item, ok := f.byID[postulationID]
	if !ok {
		return Postulation{}, ErrPostulationNotFound
	}
	return item, nil
}

func (f *fakePostulationRepo) UpdatePostulationStatus(_ context.Context, postulationID, status string) error {
	item, ok := f.byID[postulationID]
	if !ok {
		return ErrPostulationNotFound
	}
	item.Status = status
	f.byID[postulationID] = item
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

type fakeInterviewRepo struct {
	sessions      map[string]Session
	byPostulation map[string]string
	questions     map[string][]Question
	answers       map[int64]Answer
	nextID        int64

	createCalls      int
	listAnswersCalls int
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{
		sessions:      make(map[string]Session),
		byPostulation: make(map[string]string),
		questions:     make(map[string][]Question),
		answers:       make(map[int64]Answer),
	}
}

func (f *fakeInterviewRepo) CreateSession(_ context.Context, session Session, questions []Question) (Session, error) {
	f.createCalls++
	if existing, ok := f.byPostulation[session.PostulationID]; ok {
		return f.sessions[existing], nil
	}
	f.sessions[session.ID] = session
	f.byPostulation[session.PostulationID] = session.ID
	for idx := range questions {
		f.nextID++
		questions[idx].ID = f.nextID
	}
	f.questions[session.ID] = questions
	return session, nil
}

func (f *fakeInterviewRepo) GetSession(_ context.Context, sessionID string) (Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeInterviewRepo) GetSessionByPostulation(ctx context.Context, postulationID string) (Session, error) {
	sessionID, ok := f.byPostulation[postulationID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return f.GetSession(ctx, sessionID)
}

func (f *fakeInterviewRepo) ListQuestions(_ context.Context, sessionID string) ([]Question, error) {
	return f.questions[sessionID], nil
}

func (f *fakeInterviewRepo) GetQuestion(_ context.Context, questionID int64) (Question, error) {
	for _, questions := range f.questions {
		for _, question := range questions {
			if question.ID == questionID {
				return question, nil
			}
		}
	}
	return Question{}, ErrQuestionNotFound
}

func (f *fakeInterviewRepo) UpsertAnswer(_ context.Context, answer Answer) error {
	f.answers[answer.QuestionID] = answer
	return nil
}

func (f *fakeInterviewRepo) ListAnswers(_ context.Context, sessionID string) ([]Answer, error) {
	f.listAnswersCalls++
	var out []Answer
	for _, question := range f.questions[sessionID] {
		if answer, ok := f.answers[question.ID]; ok {
			out = append(out, answer)
		}
	}
	return out, nil
}

func (f *fakeInterviewRepo) FinalizeSession(_ context.Context, sessionID string, finalizedAt time.Time) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.FinalizedAt = finalizedAt
	f.sessions[sessionID] = session
	return nil
}

type fakePicker struct {
	items []bank.Item
	err   error
	seeds []string
}

func (f *fakePicker) Pick(seed string, n int) ([]bank.Item, error) {
	f.seeds = append(f.seeds, seed)
	if f.err != nil {
		return nil, f.err
	}
	if n > len(f.items) {
		return nil, bank.ErrNotEnoughQuestions
	}
	return f.items[:n], nil
}

func newTestService(t *testing.T) (*Service, *fakePostulationRepo, *fakeInterviewRepo) {
	t.Helper()
	postulations := newFakePostulationRepo()
	interviews := newFakeInterviewRepo()
	picker := &fakePicker{items: []bank.Item{
		{Text: "Explain channels", Category: "go", Keywords: []string{"send", "receive"}},
		{Text: "Explain indexes", Category: "databases", Keywords: []string{"b-tree"}},
		{Text: "Tell me about a conflict", Category: "behavioral"},
	}}
	service := NewService(postulations, interviews, picker, 3, nil)
	service.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	if _, err := service.CreatePostulation(context.Background(), Postulation{ID: "post-1", JobTitle: "Engineer"}); err != nil {
		t.Fatalf("CreatePostulation failed: %v", err)
	}
	return service, postulations, interviews
}

func TestServiceCreatePostulationValidatesAndAssignsID(t *testing.T) {
	service := NewService(newFakePostulationRepo(), newFakeInterviewRepo(), &fakePicker{}, 0, nil)

	if _, err := service.CreatePostulation(context.Background(), Postulation{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	created, err := service.CreatePostulation(context.Background(), Postulation{JobTitle: " SRE "})
	if err != nil {
		t.Fatalf("CreatePostulation failed: %v", err)
	}
	if created.ID == "" || created.JobTitle != "SRE" || created.Status != StatusApplied {
		t.Fatalf("unexpected postulation: %+v", created)
	}
	if service.questionCount != DefaultQuestionCount {
		t.Fatalf("question count = %d, want default", service.questionCount)
	}
}

func TestServiceGetQuestionsWithoutGenerateReturnsEmptySet(t *testing.T) {
	service, _, interviews := newTestService(t)

	set, err := service.GetQuestions(context.Background(), "post-1", false)
	if err != nil {
		t.Fatalf("GetQuestions failed: %v", err)
	}
	if len(set.Questions) != 0 || set.SessionID != "" {
		t.Fatalf("expected empty set, got %+v", set)
	}
	if interviews.createCalls != 0 {
		t.Fatalf("session created without generate")
	}

	if _, err := service.GetQuestions(context.Background(), "missing", false); !errors.Is(err, ErrPostulationNotFound) {
		t.Fatalf("error = %v, want ErrPostulationNotFound", err)
	}
}

func TestServiceGenerateIsIdempotent(t *testing.T) {
	service, postulations, interviews := newTestService(t)

	first, err := service.GetQuestions(context.Background(), "post-1", true)
	if err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	second, err := service.GetQuestions(context.Background(), "post-1", true)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if len(first.Questions) != 3 || first.PendingCount != 3 || first.AnsweredCount != 0 {
		t.Fatalf("unexpected first set: %+v", first)
	}
	if first.SessionID == "" || first.SessionID != second.SessionID {
		t.Fatalf("session ids differ: %q vs %q", first.SessionID, second.SessionID)
	}
	if interviews.createCalls != 1 {
		t.Fatalf("create calls = %d, want 1", interviews.createCalls)
	}
	if got := postulations.byID["post-1"].Status; got != StatusInterviewing {
		t.Fatalf("status = %q, want %q", got, StatusInterviewing)
	}
}

func TestServiceSubmitAnswerUpsertsAndReportsState(t *testing.T) {
	service, _, _ := newTestService(t)
	set, err := service.GetQuestions(context.Background(), "post-1", true)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	questionID := set.Questions[0].ID

	if _, err := service.SubmitAnswer(context.Background(), questionID, "we send", "post-1"); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	answer, err := service.SubmitAnswer(context.Background(), questionID, "  we send and receive  ", "post-1")
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if answer.Text != "we send and receive" {
		t.Fatalf("answer text = %q", answer.Text)
	}
	if answer.Criteria[CriterionCoverage] != 10 {
		t.Fatalf("coverage = %v, want 10", answer.Criteria[CriterionCoverage])
	}

	set, err = service.GetQuestions(context.Background(), "post-1", false)
	if err != nil {
		t.Fatalf("GetQuestions failed: %v", err)
	}
	if set.AnsweredCount != 1 || set.PendingCount != 2 {
		t.Fatalf("answered=%d pending=%d, want 1/2", set.AnsweredCount, set.PendingCount)
	}
	if !set.Questions[0].Answered || set.Questions[0].PreviousAnswer != "we send and receive" {
		t.Fatalf("unexpected first question state: %+v", set.Questions[0])
	}
}

func TestServiceSubmitAnswerErrors(t *testing.T) {
	service, _, _ := newTestService(t)
	set, err := service.GetQuestions(context.Background(), "post-1", true)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	questionID := set.Questions[0].ID

	tests := []struct {
		name          string
		questionID    int64
		answer        string
		postulationID string
		want          error
	}{
		{name: "empty", questionID: questionID, answer: "  ", postulationID: "post-1", want: ErrInvalidInput},
		{name: "unknown question", questionID: 999, answer: "x", postulationID: "post-1", want: ErrQuestionNotFound},
		{name: "other postulation", questionID: questionID, answer: "x", postulationID: "post-2", want: ErrQuestionNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SubmitAnswer(context.Background(), tc.questionID, tc.answer, tc.postulationID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}

	if err := service.FinalizeSession(context.Background(), set.SessionID); err != nil {
		t.Fatalf("FinalizeSession failed: %v", err)
	}
	if _, err := service.SubmitAnswer(context.Background(), questionID, "late", "post-1"); !errors.Is(err, ErrSessionFinalized) {
		t.Fatalf("error = %v, want ErrSessionFinalized", err)
	}
}

func TestServiceResultRequiresFinalizedSession(t *testing.T) {
	service, postulations, interviews := newTestService(t)
	set, err := service.GetQuestions(context.Background(), "post-1", true)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := service.GetResult(context.Background(), "unknown"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("unknown session error = %v, want ErrResultNotFound", err)
	}
	if _, err := service.GetResult(context.Background(), set.SessionID); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("open session error = %v, want ErrResultNotFound", err)
	}

	if _, err := service.SubmitAnswer(context.Background(), set.Questions[0].ID, "send receive", "post-1"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := service.FinalizeSession(context.Background(), set.SessionID); err != nil {
			t.Fatalf("FinalizeSession #%d failed: %v", i+1, err)
		}
	}
	if got := postulations.byID["post-1"].Status; got != StatusInterviewed {
		t.Fatalf("status = %q, want %q", got, StatusInterviewed)
	}
	if len(postulations.statusCalls) != 2 {
		t.Fatalf("status updates = %v, want interviewing then interviewed once", postulations.statusCalls)
	}

	result, err := service.GetResult(context.Background(), set.SessionID)
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if len(result.Answers) != 1 || result.SessionID != set.SessionID {
		t.Fatalf("unexpected result: %+v", result)
	}

	calls := interviews.listAnswersCalls
	if _, err := service.GetResult(context.Background(), set.SessionID); err != nil {
		t.Fatalf("second GetResult failed: %v", err)
	}
	if interviews.listAnswersCalls != calls {
		t.Fatalf("expected cached result on second read")
	}
}

func TestServiceGenerateSurfacesPickerErrors(t *testing.T) {
	postulations := newFakePostulationRepo()
	interviews := newFakeInterviewRepo()
	picker := &fakePicker{err: fmt.Errorf("bank empty")}
	service := NewService(postulations, interviews, picker, 2, nil)
	if _, err := service.CreatePostulation(context.Background(), Postulation{ID: "p", JobTitle: "x"}); err != nil {
		t.Fatalf("CreatePostulation failed: %v", err)
	}

	if _, err := service.GetQuestions(context.Background(), "p", true); err == nil {
		t.Fatalf("expected picker error")
	}
	if len(picker.seeds) != 1 || picker.seeds[0] != "p" {
		t.Fatalf("picker seeds = %v, want [p]", picker.seeds)
	}
	if interviews.createCalls != 0 {
		t.Fatalf("session created despite picker error")
	}
}

func TestConsolidateAggregatesByCategory(t *testing.T) {
	questions := []Question{
		{ID: 1, Category: "go"},
		{ID: 2, Category: "go"},
		{ID: 3, Category: "databases"},
		{ID: 4, Category: "behavioral"},
	}
	answers := []Answer{
		{QuestionID: 1, Score: 8},
		{QuestionID: 2, Score: 9},
		{QuestionID: 3, Score: 6},
	}

	result := consolidate("sess", questions, answers)
	if result.OverallScore != 5.8 {
		t.Fatalf("overall = %v, want 5.8", result.OverallScore)
	}
	if result.CriteriaScores["go"] != 8.5 || result.CriteriaScores["databases"] != 6 || result.CriteriaScores["behavioral"] != 0 {
		t.Fatalf("criteria = %v", result.CriteriaScores)
	}
	if len(result.Strengths) != 1 || result.Strengths[0] != "go" {
		t.Fatalf("strengths = %v, want [go]", result.Strengths)
	}
	if len(result.Improvements) != 1 || result.Improvements[0] != "behavioral" {
		t.Fatalf("improvements = %v, want [behavioral]", result.Improvements)
	}
}
