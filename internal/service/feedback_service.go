package service

import (
	"context"
	"strings"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
)

const defaultFeedbackType = "general"

type FeedbackService struct {
	content *repository.ContentRepository
}

func NewFeedbackService(content *repository.ContentRepository) *FeedbackService {
	return &FeedbackService{content: content}
}

func (s *FeedbackService) Submit(ctx context.Context, req model.FeedbackRequest) (model.Feedback, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return model.Feedback{}, err
	}

	feedbackType := strings.TrimSpace(req.FeedbackType)
	if feedbackType == "" {
		feedbackType = defaultFeedbackType
	}

	return s.content.CreateFeedback(ctx, model.Feedback{
		Email:        req.Email,
		FeedbackType: feedbackType,
		FeedbackText: strings.TrimSpace(req.FeedbackText),
	}), nil
}
