package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	// TimeBudget is the session length in seconds.
	TimeBudget    int
	RedirectDelay time.Duration
	Logger        *log.Logger
}

// Controller owns the state of one interview session. Collaborator calls run
// without holding the lock; their results are applied only while the session
// token taken before the call is still current, so responses that arrive after
// Close or a new Load are dropped.
type Controller struct {
	questionSvc   QuestionService
	evaluationSvc EvaluationService
	timeBudget    int
	redirectDelay time.Duration
	logger        *log.Logger

	mu            sync.Mutex
	token         string
	closed        bool
	phase         Phase
	postulationID string
	sessionID     string
	postulation   Postulation
	questions     []Question
	answers       []string
	cursor        int
	draft         string
	remaining     int
	clockStarted  bool
	clockRunning  bool
	evaluations   []Evaluation
	consolidated  *ConsolidatedResult
	generating    bool
	notice        error
}

func NewController(questions QuestionService, evaluations EvaluationService, cfg Config) *Controller {
	timeBudget := cfg.TimeBudget
	if timeBudget <= 0 {
		timeBudget = DefaultTimeBudget
	}
	redirectDelay := cfg.RedirectDelay
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Controller{
		questionSvc:   questions,
		evaluationSvc: evaluations,
		timeBudget:    timeBudget,
		redirectDelay: redirectDelay,
		logger:        logger,
		phase:         PhaseLoading,
	}
}

func (c *Controller) RedirectDelay() time.Duration {
	return c.redirectDelay
}

// Load starts a session for postulationID. When sessionID names a session whose
// consolidated result already exists, the controller goes straight to
// PhaseCompleted. Load always leaves the controller in PhaseAnswering,
// PhaseGenerating, PhaseCompleted or PhaseErrored.
func (c *Controller) Load(ctx context.Context, postulationID, sessionID string) error {
	postulationID = strings.TrimSpace(postulationID)
	sessionID = strings.TrimSpace(sessionID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	token := uuid.NewString()
	c.resetLocked(token, postulationID, sessionID)
	c.mu.Unlock()

	if postulationID == "" {
		return c.fail(token, fmt.Errorf("%w: postulation id is required", ErrLoad))
	}

	if sessionID != "" {
		result, err := c.evaluationSvc.ConsolidatedResult(ctx, sessionID)
		switch {
		case err == nil:
			c.mu.Lock()
			defer c.mu.Unlock()
			if !c.liveLocked(token) {
				return ErrClosed
			}
			c.consolidated = &result
			c.evaluations = slices.Clone(result.Evaluations)
			c.phase = PhaseCompleted
			c.logger.Printf("session %s already completed, showing stored result", sessionID)
			return nil
		case errors.Is(err, ErrResultNotFound):
		default:
			return c.fail(token, fmt.Errorf("%w: fetch result: %w", ErrLoad, err))
		}
	}

	postulation, err := c.questionSvc.Postulation(ctx, postulationID)
	if err != nil {
		return c.fail(token, fmt.Errorf("%w: fetch postulation: %w", ErrLoad, err))
	}

	set, err := c.questionSvc.Questions(ctx, postulationID, false)
	if err != nil {
		return c.fail(token, fmt.Errorf("%w: fetch questions: %w", ErrLoad, err))
	}

	c.mu.Lock()
	if !c.liveLocked(token) {
		c.mu.Unlock()
		return ErrClosed
	}
	c.postulation = postulation
	if len(set.Questions) > 0 {
		c.applyQuestionSetLocked(set)
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseGenerating
	c.mu.Unlock()

	return c.Generate(ctx)
}

// Generate asks the question service to create the question set. It is a
// no-op outside PhaseGenerating and while another generation request is in
// flight. A failed request releases the latch so Generate can be retried.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase != PhaseGenerating || c.generating {
		c.mu.Unlock()
		return nil
	}
	c.generating = true
	token := c.token
	postulationID := c.postulationID
	c.mu.Unlock()

	set, err := c.questionSvc.Questions(ctx, postulationID, true)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.liveLocked(token) {
		return ErrClosed
	}
	c.generating = false

	if err == nil && len(set.Questions) == 0 {
		err = errors.New("no questions returned")
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrGeneration, err)
		c.notice = err
		c.logger.Printf("question generation for %s failed: %v", postulationID, err)
		return err
	}

	c.applyQuestionSetLocked(set)
	return nil
}

func (c *Controller) NavigateTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.phase != PhaseAnswering {
		return phaseError("navigate", c.phase)
	}
	if index < 0 || index >= len(c.questions) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidCursor, index, len(c.questions))
	}

	c.cursor = index
	c.draft = c.answers[index]
	return nil
}

func (c *Controller) EditDraft(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.phase != PhaseAnswering {
		return phaseError("edit", c.phase)
	}

	c.draft = text
	return nil
}

// SubmitCurrent sends the draft of the displayed question for evaluation. On
// failure the controller returns to PhaseAnswering with cursor and draft
// unchanged.
func (c *Controller) SubmitCurrent(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase != PhaseAnswering {
		phase := c.phase
		c.mu.Unlock()
		return phaseError("submit", phase)
	}

	answer := strings.TrimSpace(c.draft)
	if answer == "" {
		c.notice = ErrEmptyAnswer
		c.mu.Unlock()
		return ErrEmptyAnswer
	}

	c.phase = PhaseSubmitting
	cursor := c.cursor
	c.answers[cursor] = answer
	question := c.questions[cursor]
	token := c.token
	postulationID := c.postulationID
	c.mu.Unlock()

	evaluation, err := c.evaluationSvc.SubmitAnswer(ctx, question.ID, answer, postulationID)

	c.mu.Lock()
	if !c.liveLocked(token) {
		c.mu.Unlock()
		return ErrClosed
	}

	if c.phase != PhaseSubmitting {
		// Completion started while the request was in flight.
		if err == nil {
			c.recordEvaluationLocked(cursor, question.ID, answer, evaluation)
		}
		c.logger.Printf("submission for question %d settled after completion started (phase %s)", question.ID, c.phase)
		c.mu.Unlock()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSubmission, err)
		}
		return nil
	}

	if err != nil {
		c.phase = PhaseAnswering
		err = fmt.Errorf("%w: %w", ErrSubmission, err)
		c.notice = err
		c.logger.Printf("submission for question %d failed: %v", question.ID, err)
		c.mu.Unlock()
		return err
	}

	c.recordEvaluationLocked(cursor, question.ID, answer, evaluation)
	c.notice = nil

	if cursor == len(c.questions)-1 {
		if next := firstUnanswered(c.questions); next >= 0 {
			c.moveToLocked(next)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
		return c.Complete(ctx)
	}

	c.moveToLocked(cursor + 1)
	c.mu.Unlock()
	return nil
}

// Complete finalizes the session and fetches the consolidated result. Only the
// first call made while the session is active does any work; the rest return
// nil. Failures are reported as ErrFinalization but the controller still ends
// in PhaseCompleted, with no consolidated result.
func (c *Controller) Complete(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.phase.Active() {
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseFinalizing
	c.clockRunning = false
	token := c.token
	sessionID := c.sessionKeyLocked()
	c.mu.Unlock()

	var (
		result      *ConsolidatedResult
		completeErr error
	)
	if err := c.evaluationSvc.FinalizeSession(ctx, sessionID); err != nil {
		completeErr = fmt.Errorf("%w: finalize session: %w", ErrFinalization, err)
	} else {
		fetched, err := c.evaluationSvc.ConsolidatedResult(ctx, sessionID)
		if err != nil {
			completeErr = fmt.Errorf("%w: fetch result: %w", ErrFinalization, err)
		} else {
			result = &fetched
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.liveLocked(token) {
		return ErrClosed
	}
	c.phase = PhaseCompleted
	c.consolidated = result
	c.notice = completeErr
	if completeErr != nil {
		c.logger.Printf("session %s completed without result: %v", sessionID, completeErr)
	}
	return completeErr
}

// Tick advances the session clock by one second. When the budget runs out the
// session is completed with whatever has been submitted so far; the draft is
// not sent.
func (c *Controller) Tick(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.phase.Active() || !c.clockRunning {
		c.mu.Unlock()
		return nil
	}

	c.remaining--
	if c.remaining > 0 {
		c.mu.Unlock()
		return nil
	}
	c.remaining = 0
	c.clockRunning = false
	c.logger.Printf("time budget exhausted for %s with %d/%d answered", c.postulationID, countAnswered(c.questions), len(c.questions))
	c.mu.Unlock()

	return c.Complete(ctx)
}

// RunClock calls Tick every interval until ctx is done or the session reaches
// a terminal phase.
func (c *Controller) RunClock(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Tick(ctx); err != nil {
				if errors.Is(err, ErrClosed) {
					return
				}
				c.logger.Printf("clock tick: %v", err)
			}
			if c.Phase().Terminal() {
				return
			}
		}
	}
}

// Close detaches the controller from its session. Pending responses are
// discarded when they arrive.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.token = ""
	c.clockRunning = false
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		Phase:            c.phase,
		PostulationID:    c.postulationID,
		SessionID:        c.sessionKeyLocked(),
		Postulation:      c.postulation,
		Questions:        slices.Clone(c.questions),
		Answers:          slices.Clone(c.answers),
		Cursor:           c.cursor,
		Draft:            c.draft,
		RemainingSeconds: c.remaining,
		ClockRunning:     c.clockRunning,
		Evaluations:      make([]Evaluation, 0, len(c.evaluations)),
		Notice:           c.notice,
	}
	for _, evaluation := range c.evaluations {
		snapshot.Evaluations = append(snapshot.Evaluations, copyEvaluation(evaluation))
	}
	if c.consolidated != nil {
		result := *c.consolidated
		result.Strengths = slices.Clone(result.Strengths)
		result.Improvements = slices.Clone(result.Improvements)
		result.CriteriaScores = copyScores(result.CriteriaScores)
		result.Evaluations = slices.Clone(result.Evaluations)
		snapshot.Consolidated = &result
	}
	return snapshot
}

func (c *Controller) resetLocked(token, postulationID, sessionID string) {
	c.token = token
	c.phase = PhaseLoading
	c.postulationID = postulationID
	c.sessionID = sessionID
	c.postulation = Postulation{}
	c.questions = nil
	c.answers = nil
	c.cursor = 0
	c.draft = ""
	c.remaining = 0
	c.clockStarted = false
	c.clockRunning = false
	c.evaluations = nil
	c.consolidated = nil
	c.generating = false
	c.notice = nil
}

func (c *Controller) liveLocked(token string) bool {
	return !c.closed && token != "" && c.token == token
}

func (c *Controller) fail(token string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.liveLocked(token) {
		return err
	}
	c.phase = PhaseErrored
	c.clockRunning = false
	c.notice = err
	c.logger.Printf("loading postulation %s failed: %v", c.postulationID, err)
	return err
}

func (c *Controller) applyQuestionSetLocked(set QuestionSet) {
	c.questions, c.answers, c.cursor = Reconcile(set.Questions)
	if set.SessionID != "" {
		c.sessionID = set.SessionID
	}
	c.draft = c.answers[c.cursor]
	c.phase = PhaseAnswering
	if !c.clockStarted {
		c.clockStarted = true
		c.clockRunning = true
		c.remaining = c.timeBudget
	}
}

func (c *Controller) recordEvaluationLocked(cursor int, questionID int64, answer string, evaluation Evaluation) {
	if evaluation.QuestionID == 0 {
		evaluation.QuestionID = questionID
	}
	if evaluation.Answer == "" {
		evaluation.Answer = answer
	}

	replaced := false
	for idx := range c.evaluations {
		if c.evaluations[idx].QuestionID == evaluation.QuestionID {
			c.evaluations[idx] = evaluation
			replaced = true
			break
		}
	}
	if !replaced {
		c.evaluations = append(c.evaluations, evaluation)
	}

	c.questions[cursor].Answered = true
	c.questions[cursor].PreviousAnswer = answer
}

func (c *Controller) moveToLocked(index int) {
	c.cursor = index
	c.draft = c.answers[index]
	c.phase = PhaseAnswering
}

func (c *Controller) sessionKeyLocked() string {
	if c.sessionID != "" {
		return c.sessionID
	}
	return c.postulationID
}

func countAnswered(questions []Question) int {
	count := 0
	for _, question := range questions {
		if question.Answered {
			count++
		}
	}
	return count
}

func copyEvaluation(evaluation Evaluation) Evaluation {
	evaluation.Criteria = copyScores(evaluation.Criteria)
	return evaluation
}

func copyScores(scores map[string]float64) map[string]float64 {
	if scores == nil {
		return nil
	}
	out := make(map[string]float64, len(scores))
	for key, value := range scores {
		out[key] = value
	}
	return out
}
