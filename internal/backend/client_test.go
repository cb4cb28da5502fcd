package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"interview-app/internal/interview"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := NewClient("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	err := client.doJSON(context.Background(), http.MethodGet, "/health", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "bad request payload"})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.doJSON(context.Background(), http.MethodGet, "/anything", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if apiErr.Message != "bad request payload" {
		t.Fatalf("message = %q, want %q", apiErr.Message, "bad request payload")
	}
	if _, err := uuid.Parse(apiErr.RequestID); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", apiErr.RequestID, err)
	}
}

func TestDoJSONSetsRequestID(t *testing.T) {
	var got string
	client := NewClient("http://example.test/", &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			got = r.Header.Get("X-Request-ID")
			return nil, errors.New("stop")
		}),
	})

	_ = client.doJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("X-Request-ID = %q, want uuid", got)
	}
}

func TestQuestionsUsesMethodForGeneration(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/postulations/post 1/questions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		methods = append(methods, r.Method)
		_ = json.NewEncoder(w).Encode(questionsResponse{
			SessionID: "sess-1",
			Questions: []questionItem{
				{ID: 2, Text: "Explain channels", Category: "go", DifficultyScore: 4.5},
				{ID: 1, Text: "Explain maps", Answered: true, PreviousAnswer: "hash table"},
			},
			AnsweredCount: 1,
			PendingCount:  1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	set, err := client.Questions(context.Background(), "post 1", false)
	if err != nil {
		t.Fatalf("Questions failed: %v", err)
	}
	if _, err := client.Questions(context.Background(), "post 1", true); err != nil {
		t.Fatalf("Questions(generate) failed: %v", err)
	}

	if len(methods) != 2 || methods[0] != http.MethodGet || methods[1] != http.MethodPost {
		t.Fatalf("methods = %v, want [GET POST]", methods)
	}
	if set.SessionID != "sess-1" || set.AnsweredCount != 1 || set.PendingCount != 1 {
		t.Fatalf("unexpected set header: %+v", set)
	}
	if len(set.Questions) != 2 || set.Questions[1].PreviousAnswer != "hash table" || !set.Questions[1].Answered {
		t.Fatalf("unexpected questions: %+v", set.Questions)
	}
	if set.Questions[0].DifficultyScore != 4.5 || set.Questions[0].Category != "go" {
		t.Fatalf("unexpected first question: %+v", set.Questions[0])
	}
}

func TestSubmitAnswerSendsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/evaluations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var request evaluationRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if request.QuestionID != 7 || request.Answer != "goroutines" || request.PostulationID != "post-1" {
			t.Errorf("unexpected request body: %+v", request)
		}
		_ = json.NewEncoder(w).Encode(evaluationResponse{
			QuestionID: 7,
			Answer:     request.Answer,
			Score:      6.5,
			Feedback:   "fine",
			Criteria:   map[string]float64{"go": 6.5},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	evaluation, err := client.SubmitAnswer(context.Background(), 7, "goroutines", "post-1")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if evaluation.QuestionID != 7 || evaluation.Score != 6.5 || evaluation.Criteria["go"] != 6.5 {
		t.Fatalf("unexpected evaluation: %+v", evaluation)
	}
}

func TestConsolidatedResultNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "result not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.ConsolidatedResult(context.Background(), "sess-1")
	if !errors.Is(err, interview.ErrResultNotFound) {
		t.Fatalf("error = %v, want ErrResultNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected wrapped 404 APIError, got %v", err)
	}
}

func TestConsolidatedResultServerErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.ConsolidatedResult(context.Background(), "sess-1")
	if err == nil || errors.Is(err, interview.ErrResultNotFound) {
		t.Fatalf("error = %v, want non-NotFound failure", err)
	}
}

func TestFinalizeSessionPath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	if err := client.FinalizeSession(context.Background(), "sess-9"); err != nil {
		t.Fatalf("FinalizeSession failed: %v", err)
	}
	if path != "POST /sessions/sess-9/finalize" {
		t.Fatalf("request = %q", path)
	}
	if err := client.FinalizeSession(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty session id")
	}
}
