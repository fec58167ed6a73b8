package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/internal/storage"
	"go-interview-client/pkg/apierror"
)

func newContentService(t *testing.T, maxSize int64) *ContentService {
	t.Helper()

	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewContentService(repository.NewContentRepository(), files, maxSize, nil)
}

func TestContentServiceUploadResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newContentService(t, 1024)

	text, err := svc.UploadResume(ctx, 3, "cv.txt", []byte("Jane Doe\nGo engineer\n"))
	require.NoError(t, err)
	require.Equal(t, "users/3/cv.txt", text.Filename)
	require.NotNil(t, text.RawText)
	require.Equal(t, "Jane Doe\nGo engineer", *text.RawText)

	again, err := svc.UploadResume(ctx, 3, "../cv.txt", []byte("second"))
	require.NoError(t, err)
	require.Equal(t, "users/3/cv_1.txt", again.Filename)

	pdf, err := svc.UploadResume(ctx, 3, "cv.pdf", []byte("%PDF-1.7\n"))
	require.NoError(t, err)
	require.Nil(t, pdf.RawText)

	loaded, err := svc.Resume(ctx, pdf.ID)
	require.NoError(t, err)
	require.Equal(t, pdf.Filename, loaded.Filename)

	_, err = svc.Resume(ctx, 404)
	require.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	_, err = svc.UploadResume(ctx, 3, "cv.png", []byte("\x89PNG\r\n\x1a\n"))
	require.Equal(t, http.StatusUnsupportedMediaType, apierror.StatusOf(err))

	_, err = svc.UploadResume(ctx, 3, "cv.txt", make([]byte, 2048))
	require.Equal(t, http.StatusRequestEntityTooLarge, apierror.StatusOf(err))

	_, err = svc.UploadResume(ctx, 3, "cv.txt", nil)
	require.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
}

func TestContentServiceJobs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newContentService(t, 0)

	_, err := svc.CreateJob(ctx, 1, model.JobDescriptionRequest{JDText: "  "})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	job, err := svc.CreateJob(ctx, 1, model.JobDescriptionRequest{Title: "Backend", JDText: "Write Go services."})
	require.NoError(t, err)
	require.Equal(t, "Backend", *job.Title)
	require.Equal(t, int64(1), *job.UserID)

	loaded, err := svc.Job(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, "Write Go services.", loaded.JDText)

	_, err = svc.Job(ctx, 99)
	require.Equal(t, "JD not found", apiMessage(err))
}

func TestFeedbackService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewFeedbackService(repository.NewContentRepository())

	_, err := svc.Submit(ctx, model.FeedbackRequest{Email: "nope", FeedbackText: "hi"})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	saved, err := svc.Submit(ctx, model.FeedbackRequest{Email: " a@b.c ", FeedbackText: " Great tool "})
	require.NoError(t, err)
	require.Equal(t, int64(1), saved.ID)
	require.Equal(t, "general", saved.FeedbackType)
	require.Equal(t, "a@b.c", saved.Email)
	require.Equal(t, "Great tool", saved.FeedbackText)
}
