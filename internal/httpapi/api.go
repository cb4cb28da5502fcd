package httpapi

import "interview-app/internal/assessment"

type API struct {
	service *assessment.Service
}

func NewAPI(service *assessment.Service) *API {
	return &API{service: service}
}
