package handler

import (
	"net/http"

	"go-interview-client/internal/model"
	"go-interview-client/internal/service"
)

type FeedbackHandler struct {
	service *service.FeedbackService
}

func NewFeedbackHandler(service *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.FeedbackRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	feedback, err := h.service.Submit(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}
