package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (a *API) HandleCreatePostulation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interview service unavailable"})
		return
	}

	defer r.Body.Close()

	var request createPostulationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	postulation, err := a.service.CreatePostulation(r.Context(), toPostulation(request))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostulationResponse(postulation))
}

func (a *API) HandlePostulation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interview service unavailable"})
		return
	}

	postulation, err := a.service.GetPostulation(r.Context(), r.PathValue("postulation_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostulationResponse(postulation))
}

// HandleQuestions serves the question set of a postulation. POST, or GET with
// generate=true, creates the set when it does not exist.
func (a *API) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interview service unavailable"})
		return
	}

	postulationID := strings.TrimSpace(r.PathValue("postulation_id"))
	generate := r.Method == http.MethodPost || parseBoolParam(r, "generate")

	set, err := a.service.GetQuestions(r.Context(), postulationID, generate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionsResponse(set))
}

func (a *API) HandleEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interview service unavailable"})
		return
	}

	defer r.Body.Close()

	var request evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.QuestionID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question_id is required"})
		return
	}
	if strings.TrimSpace(request.PostulationID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "postulation_id is required"})
		return
	}

	answer, err := a.service.SubmitAnswer(r.Context(), request.QuestionID, request.Answer, request.PostulationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvaluationResponse(answer))
}

func (a *API) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interview service unavailable"})
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("session_id"))
	if err := a.service.FinalizeSession(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, finalizeResponse{SessionID: sessionID, Status: "finalized"})
}

func (a *API) HandleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interview service unavailable"})
		return
	}

	result, err := a.service.GetResult(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(result))
}
