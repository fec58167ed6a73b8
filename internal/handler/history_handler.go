package handler

import (
	"net/http"

	"go-interview-client/internal/service"
)

type HistoryHandler struct {
	service *service.HistoryService
}

func NewHistoryHandler(service *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) User(w http.ResponseWriter, r *http.Request) {
	caller, userID, ok := h.params(w, r, "userID")
	if !ok {
		return
	}

	history, err := h.service.UserHistory(r.Context(), caller, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *HistoryHandler) Last(w http.ResponseWriter, r *http.Request) {
	caller, userID, ok := h.params(w, r, "userID")
	if !ok {
		return
	}

	summary, err := h.service.Last(r.Context(), caller, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *HistoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	caller, interviewID, ok := h.params(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.service.Detail(r.Context(), caller, interviewID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *HistoryHandler) params(w http.ResponseWriter, r *http.Request, name string) (int64, int64, bool) {
	caller, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}

	id, err := pathID(r, name)
	if err != nil {
		writeError(w, err)
		return 0, 0, false
	}
	return caller, id, true
}
