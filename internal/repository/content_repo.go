package repository

import (
	"context"
	"sync"

	"go-interview-client/internal/model"
)

// ContentRepository holds résumés, job descriptions and product feedback.
type ContentRepository struct {
	mu           sync.RWMutex
	resumes      map[int64]model.Resume
	jobs         map[int64]model.JobDescription
	feedback     []model.Feedback
	nextResume   int64
	nextJob      int64
	nextFeedback int64
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{
		resumes: map[int64]model.Resume{},
		jobs:    map[int64]model.JobDescription{},
	}
}

func (r *ContentRepository) CreateResume(_ context.Context, resume model.Resume) model.Resume {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextResume++
	resume.ID = r.nextResume
	r.resumes[resume.ID] = resume
	return resume
}

func (r *ContentRepository) Resume(_ context.Context, id int64) (model.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resume, ok := r.resumes[id]
	if !ok {
		return model.Resume{}, model.ErrNotFound
	}
	return resume, nil
}

func (r *ContentRepository) CreateJob(_ context.Context, job model.JobDescription) model.JobDescription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextJob++
	job.ID = r.nextJob
	r.jobs[job.ID] = job
	return job
}

func (r *ContentRepository) Job(_ context.Context, id int64) (model.JobDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return model.JobDescription{}, model.ErrNotFound
	}
	return job, nil
}

func (r *ContentRepository) CreateFeedback(_ context.Context, feedback model.Feedback) model.Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextFeedback++
	feedback.ID = r.nextFeedback
	r.feedback = append(r.feedback, feedback)
	return feedback
}
