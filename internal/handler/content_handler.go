package handler

import (
	"errors"
	"io"
	"net/http"

	"go-interview-client/internal/model"
	"go-interview-client/internal/service"
	"go-interview-client/pkg/apierror"
)

type ContentHandler struct {
	service       *service.ContentService
	maxUploadSize int64
}

func NewContentHandler(service *service.ContentService, maxUploadSize int64) *ContentHandler {
	return &ContentHandler{service: service, maxUploadSize: maxUploadSize}
}

// UploadResume accepts multipart/form-data with a single "file" part.
func (h *ContentHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// Leave room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, apierror.New(http.StatusUnprocessableEntity, "multipart form with a file field is required"))
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeError(w, uploadError(err))
			return
		}

		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, h.maxUploadSize+1))
		_ = part.Close()
		if err != nil {
			writeError(w, uploadError(err))
			return
		}

		resume, err := h.service.UploadResume(r.Context(), userID, part.FileName(), data)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resume)
		return
	}

	writeError(w, apierror.New(http.StatusUnprocessableEntity, "file is required"))
}

func (h *ContentHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	resume, err := h.service.Resume(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (h *ContentHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.JobDescriptionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	job, err := h.service.CreateJob(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *ContentHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := h.service.Job(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierror.New(http.StatusRequestEntityTooLarge, "Uploaded file is too large")
	}
	return apierror.New(http.StatusBadRequest, "could not read upload")
}
