package service

import (
	"context"
	"net/http"
	"strings"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/pkg/apierror"
)

// feedbackThreshold splits "needs work" from "good" on the 0-10 scale.
const feedbackThreshold = 5

type HistoryService struct {
	interviews *repository.InterviewRepository
}

func NewHistoryService(interviews *repository.InterviewRepository) *HistoryService {
	return &HistoryService{interviews: interviews}
}

func (s *HistoryService) UserHistory(ctx context.Context, callerID, userID int64) (model.History, error) {
	if callerID != userID {
		return nil, apierror.New(http.StatusForbidden, "Not allowed to view another user's history")
	}

	records := s.interviews.ListByUser(ctx, userID)
	history := make(model.History, 0, len(records))
	for _, record := range records {
		history = append(history, summarize(record))
	}
	return history, nil
}

func (s *HistoryService) Last(ctx context.Context, callerID, userID int64) (model.InterviewSummary, error) {
	history, err := s.UserHistory(ctx, callerID, userID)
	if err != nil {
		return model.InterviewSummary{}, err
	}
	if len(history) == 0 {
		return model.InterviewSummary{}, apierror.New(http.StatusNotFound, "No interviews found")
	}
	return history[0], nil
}

func (s *HistoryService) Detail(ctx context.Context, callerID, interviewID int64) (model.InterviewDetail, error) {
	record, err := s.interviews.Get(ctx, interviewID)
	if err != nil || !owns(record.Interview, callerID) {
		return model.InterviewDetail{}, apierror.New(http.StatusNotFound, "Interview not found")
	}

	summary := summarize(record)
	return model.InterviewDetail{InterviewSummary: summary, Feedback: feedbackFor(summary)}, nil
}

// summarize averages answer scores per question type: resume answers count as
// technical, behavioral as behavioral, coding as coding.
func summarize(record repository.InterviewRecord) model.InterviewSummary {
	types := make(map[int64]string, len(record.Interview.Questions))
	for _, question := range record.Interview.Questions {
		types[question.ID] = strings.ToLower(question.Type)
	}

	var technical, behavioral, coding []int
	for _, answer := range record.Answers {
		if answer.QuestionID == nil {
			continue
		}
		score := 0
		if answer.Score != nil {
			score = *answer.Score
		}
		switch types[*answer.QuestionID] {
		case model.QuestionTypeResume:
			technical = append(technical, score)
		case model.QuestionTypeBehavioral:
			behavioral = append(behavioral, score)
		case model.QuestionTypeCoding:
			coding = append(coding, score)
		}
	}

	t, b, c := int(average(technical)), int(average(behavioral)), int(average(coding))
	return model.InterviewSummary{
		ID:              record.Interview.ID,
		CreatedAt:       record.Interview.CreatedAt,
		TechnicalScore:  t,
		BehavioralScore: b,
		CodingScore:     c,
		OverallScore:    (t + b + c) / 3,
	}
}

func feedbackFor(summary model.InterviewSummary) string {
	var parts []string

	if summary.TechnicalScore < feedbackThreshold {
		parts = append(parts, "Work on your technical knowledge; try practicing more fundamentals.")
	} else {
		parts = append(parts, "Your technical knowledge seems solid.")
	}

	if summary.BehavioralScore < feedbackThreshold {
		parts = append(parts, "Improve your communication and STAR method for behavioral answers.")
	} else {
		parts = append(parts, "You communicate your experiences well.")
	}

	if summary.CodingScore < feedbackThreshold {
		parts = append(parts, "Focus more on coding practice and debugging skills.")
	} else {
		parts = append(parts, "Your coding skills are good.")
	}

	return strings.Join(parts, " ")
}
