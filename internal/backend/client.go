package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"interview-app/internal/interview"
)

const DefaultBaseURL = "http://127.0.0.1:8080"

var ErrServiceUnavailable = errors.New("interview backend unavailable")

type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client talks to the interview backend over JSON/HTTP and serves as both the
// question and the evaluation service of a controller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ interview.QuestionService   = (*Client)(nil)
	_ interview.EvaluationService = (*Client)(nil)
)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) Postulation(ctx context.Context, postulationID string) (interview.Postulation, error) {
	if strings.TrimSpace(postulationID) == "" {
		return interview.Postulation{}, errors.New("postulation_id is required")
	}

	var payload postulationResponse
	if err := c.doJSON(ctx, http.MethodGet, "/postulations/"+url.PathEscape(postulationID), nil, &payload); err != nil {
		return interview.Postulation{}, err
	}

	return interview.Postulation{
		ID:            payload.ID,
		JobTitle:      payload.JobTitle,
		CompanyName:   payload.CompanyName,
		CurrentStatus: payload.CurrentStatus,
	}, nil
}

// Questions fetches the question set of a postulation. With generate set it
// POSTs instead, which creates the set when it does not exist yet.
func (c *Client) Questions(ctx context.Context, postulationID string, generate bool) (interview.QuestionSet, error) {
	if strings.TrimSpace(postulationID) == "" {
		return interview.QuestionSet{}, errors.New("postulation_id is required")
	}

	method := http.MethodGet
	if generate {
		method = http.MethodPost
	}

	var payload questionsResponse
	if err := c.doJSON(ctx, method, "/postulations/"+url.PathEscape(postulationID)+"/questions", nil, &payload); err != nil {
		return interview.QuestionSet{}, err
	}

	set := interview.QuestionSet{
		SessionID:     payload.SessionID,
		Questions:     make([]interview.Question, 0, len(payload.Questions)),
		AnsweredCount: payload.AnsweredCount,
		PendingCount:  payload.PendingCount,
	}
	for _, item := range payload.Questions {
		set.Questions = append(set.Questions, interview.Question{
			ID:              item.ID,
			Text:            item.Text,
			Category:        item.Category,
			DifficultyScore: item.DifficultyScore,
			Answered:        item.Answered,
			PreviousAnswer:  item.PreviousAnswer,
		})
	}
	return set, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, questionID int64, answer, postulationID string) (interview.Evaluation, error) {
	request := evaluationRequest{
		QuestionID:    questionID,
		Answer:        answer,
		PostulationID: postulationID,
	}

	var payload evaluationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/evaluations", request, &payload); err != nil {
		return interview.Evaluation{}, err
	}
	return toEvaluation(payload), nil
}

func (c *Client) FinalizeSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session_id is required")
	}
	return c.doJSON(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/finalize", nil, nil)
}

// ConsolidatedResult wraps interview.ErrResultNotFound when the backend answers
// 404.
func (c *Client) ConsolidatedResult(ctx context.Context, sessionID string) (interview.ConsolidatedResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return interview.ConsolidatedResult{}, errors.New("session_id is required")
	}

	var payload resultResponse
	err := c.doJSON(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/result", nil, &payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return interview.ConsolidatedResult{}, fmt.Errorf("%w: %w", interview.ErrResultNotFound, err)
		}
		return interview.ConsolidatedResult{}, err
	}

	result := interview.ConsolidatedResult{
		SessionID:      payload.SessionID,
		OverallScore:   payload.OverallScore,
		CriteriaScores: payload.CriteriaScores,
		Strengths:      payload.Strengths,
		Improvements:   payload.Improvements,
		Evaluations:    make([]interview.Evaluation, 0, len(payload.Evaluations)),
	}
	for _, item := range payload.Evaluations {
		result.Evaluations = append(result.Evaluations, toEvaluation(item))
	}
	return result, nil
}

func toEvaluation(payload evaluationResponse) interview.Evaluation {
	return interview.Evaluation{
		QuestionID: payload.QuestionID,
		Answer:     payload.Answer,
		Score:      payload.Score,
		Feedback:   payload.Feedback,
		Criteria:   payload.Criteria,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	request.Header.Set("X-Request-ID", requestID)
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode, RequestID: requestID}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
