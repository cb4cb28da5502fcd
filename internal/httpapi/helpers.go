package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"interview-app/internal/assessment"
	"interview-app/internal/bank"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assessment.ErrPostulationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "postulation not found"})
	case errors.Is(err, assessment.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, assessment.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
	case errors.Is(err, assessment.ErrResultNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "result not found"})
	case errors.Is(err, assessment.ErrSessionFinalized):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "session already finalized"})
	case errors.Is(err, assessment.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, bank.ErrNotEnoughQuestions):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to generate questions"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func toPostulation(request createPostulationRequest) assessment.Postulation {
	return assessment.Postulation{
		ID:          request.ID,
		JobTitle:    request.JobTitle,
		CompanyName: request.CompanyName,
	}
}

func toPostulationResponse(postulation assessment.Postulation) postulationResponse {
	return postulationResponse{
		ID:            postulation.ID,
		JobTitle:      postulation.JobTitle,
		CompanyName:   postulation.CompanyName,
		CurrentStatus: postulation.Status,
		CreatedAt:     postulation.CreatedAt,
	}
}

func toQuestionsResponse(set assessment.QuestionSet) questionsResponse {
	response := questionsResponse{
		SessionID:     set.SessionID,
		Questions:     make([]questionResponse, 0, len(set.Questions)),
		AnsweredCount: set.AnsweredCount,
		PendingCount:  set.PendingCount,
	}
	for _, question := range set.Questions {
		response.Questions = append(response.Questions, questionResponse{
			ID:              question.ID,
			Text:            question.Text,
			Category:        question.Category,
			DifficultyScore: question.Difficulty,
			Answered:        question.Answered,
			PreviousAnswer:  question.PreviousAnswer,
		})
	}
	return response
}

func toEvaluationResponse(answer assessment.Answer) evaluationResponse {
	return evaluationResponse{
		QuestionID: answer.QuestionID,
		Answer:     answer.Text,
		Score:      answer.Score,
		Feedback:   answer.Feedback,
		Criteria:   answer.Criteria,
	}
}

func toResultResponse(result assessment.Result) resultResponse {
	response := resultResponse{
		SessionID:      result.SessionID,
		OverallScore:   result.OverallScore,
		CriteriaScores: result.CriteriaScores,
		Strengths:      result.Strengths,
		Improvements:   result.Improvements,
		Evaluations:    make([]evaluationResponse, 0, len(result.Answers)),
	}
	for _, answer := range result.Answers {
		response.Evaluations = append(response.Evaluations, toEvaluationResponse(answer))
	}
	return response
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods ...string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
