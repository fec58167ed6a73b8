package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/internal/storage"
	"go-interview-client/internal/util"
	"go-interview-client/pkg/apierror"
)

// ContentService stores the résumés and job descriptions interviews start from.
type ContentService struct {
	content       *repository.ContentRepository
	files         *storage.Storage
	maxUploadSize int64
	now           func() time.Time
}

func NewContentService(content *repository.ContentRepository, files *storage.Storage, maxUploadSize int64, now func() time.Time) *ContentService {
	if now == nil {
		now = time.Now
	}
	return &ContentService{content: content, files: files, maxUploadSize: maxUploadSize, now: now}
}

func (s *ContentService) UploadResume(ctx context.Context, userID int64, fileName string, data []byte) (model.Resume, error) {
	if len(data) == 0 {
		return model.Resume{}, apierror.New(http.StatusBadRequest, "Uploaded file is empty")
	}
	if s.maxUploadSize > 0 && int64(len(data)) > s.maxUploadSize {
		return model.Resume{}, apierror.New(http.StatusRequestEntityTooLarge, "Uploaded file is too large")
	}

	name, err := util.SanitizeFilename(fileName)
	if err != nil {
		return model.Resume{}, err
	}

	mimeType := util.DetectMIME(name, data)
	if !util.IsResumeMIME(mimeType) {
		return model.Resume{}, apierror.New(http.StatusUnsupportedMediaType, fmt.Sprintf("Unsupported resume type: %s", mimeType))
	}

	key, err := s.files.SaveUnique(fmt.Sprintf("users/%d", userID), name, data)
	if err != nil {
		return model.Resume{}, err
	}

	resume := model.Resume{
		Filename:   key,
		RawText:    extractText(mimeType, data),
		UploadedAt: model.Timestamp{Time: s.now().UTC()},
		UserID:     &userID,
	}
	resume = s.content.CreateResume(ctx, resume)

	slog.Info("resume stored", "resume_id", resume.ID, "file", key, "mime", mimeType, "bytes", len(data))
	return resume, nil
}

func (s *ContentService) Resume(ctx context.Context, id int64) (model.Resume, error) {
	resume, err := s.content.Resume(ctx, id)
	if err != nil {
		return model.Resume{}, notFound(err, "Resume not found")
	}
	return resume, nil
}

func (s *ContentService) CreateJob(ctx context.Context, userID int64, req model.JobDescriptionRequest) (model.JobDescription, error) {
	if err := req.Validate(); err != nil {
		return model.JobDescription{}, err
	}

	job := model.JobDescription{
		JDText:     strings.TrimSpace(req.JDText),
		UploadedAt: model.Timestamp{Time: s.now().UTC()},
		UserID:     &userID,
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		job.Title = &title
	}
	if req.UserID != nil {
		job.UserID = req.UserID
	}

	return s.content.CreateJob(ctx, job), nil
}

func (s *ContentService) Job(ctx context.Context, id int64) (model.JobDescription, error) {
	job, err := s.content.Job(ctx, id)
	if err != nil {
		return model.JobDescription{}, notFound(err, "JD not found")
	}
	return job, nil
}

// extractText keeps plain-text résumés readable; binary formats stay unparsed.
func extractText(mimeType string, data []byte) *string {
	if !util.IsTextMIME(mimeType) || !utf8.Valid(data) {
		return nil
	}
	text := strings.TrimSpace(string(data))
	return &text
}
