package handler

import (
	"net/http"

	"go-interview-client/internal/model"
	"go-interview-client/internal/service"
)

type InterviewHandler struct {
	service *service.InterviewService
}

func NewInterviewHandler(service *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{service: service}
}

func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.StartInterviewRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	interview, err := h.service.Start(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	interview, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	next, err := h.service.Next(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var payload model.AnswerRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	answer, err := h.service.Answer(r.Context(), userID, id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (h *InterviewHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	result, err := h.service.End(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) RunCode(w http.ResponseWriter, r *http.Request) {
	var payload model.CodeRunRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.RunCode(payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) target(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}
	return userID, id, true
}
