package httpapi

import (
	"log"
	"net/http"

	"interview-app/internal/assessment"
)

func NewRouter(service *assessment.Service, logger *log.Logger) http.Handler {
	api := NewAPI(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/postulations", api.HandleCreatePostulation)
	mux.HandleFunc("/postulations/{postulation_id}", api.HandlePostulation)
	mux.HandleFunc("/postulations/{postulation_id}/questions", api.HandleQuestions)
	mux.HandleFunc("/evaluations", api.HandleEvaluations)
	mux.HandleFunc("/sessions/{session_id}/finalize", api.HandleFinalize)
	mux.HandleFunc("/sessions/{session_id}/result", api.HandleResult)

	return logRequests(logger, mux)
}
