// Package service holds the business layer of the in-memory stand-in backend.
// The stand-in is a test fixture: questions come from a fixed canned script
// and answers get fixed canned scores. It generates and grades nothing.
package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/pkg/apierror"
)

const defaultTimerMinutes = 30

type InterviewService struct {
	interviews *repository.InterviewRepository
	content    *repository.ContentRepository
	bank       *QuestionBank
	runner     *CodeRunner
	minutesCap int
	now        func() time.Time
}

func NewInterviewService(interviews *repository.InterviewRepository, content *repository.ContentRepository, bank *QuestionBank, runner *CodeRunner, minutesCap int, now func() time.Time) *InterviewService {
	if now == nil {
		now = time.Now
	}
	return &InterviewService{
		interviews: interviews,
		content:    content,
		bank:       bank,
		runner:     runner,
		minutesCap: minutesCap,
		now:        now,
	}
}

// Start creates the interview and its first question.
func (s *InterviewService) Start(ctx context.Context, userID int64, req model.StartInterviewRequest) (model.Interview, error) {
	if req.ResumeID > 0 {
		if _, err := s.content.Resume(ctx, req.ResumeID); err != nil {
			return model.Interview{}, apierror.New(http.StatusNotFound, "Resume not found")
		}
	}
	if req.JobDescriptionID > 0 {
		if _, err := s.content.Job(ctx, req.JobDescriptionID); err != nil {
			return model.Interview{}, apierror.New(http.StatusNotFound, "Job description not found")
		}
	}

	minutes := req.TimerMinutes
	if minutes <= 0 {
		minutes = defaultTimerMinutes
	}
	if s.minutesCap > 0 && minutes > s.minutesCap {
		minutes = s.minutesCap
	}

	now := s.now().UTC()
	started := model.Timestamp{Time: now}
	expires := model.Timestamp{Time: now.Add(time.Duration(minutes) * time.Minute)}

	first := s.bank.At(0)
	interview := model.Interview{
		ResumeID:         optionalID(req.ResumeID),
		JobDescriptionID: optionalID(req.JobDescriptionID),
		CreatedAt:        started,
		StartedAt:        &started,
		ExpiresAt:        &expires,
		IsActive:         true,
		UserID:           &userID,
		Questions: []model.Question{{
			ID:      s.interviews.NextQuestionID(),
			Type:    first.Type,
			Text:    first.Text,
			Ordinal: 1,
		}},
	}

	return s.interviews.Create(ctx, interview), nil
}

// Get deactivates an interview whose time ran out before returning it.
func (s *InterviewService) Get(ctx context.Context, userID, id int64) (model.Interview, error) {
	now := s.now()
	record, err := s.interviews.Update(ctx, id, func(record *repository.InterviewRecord) error {
		if !owns(record.Interview, userID) {
			return model.ErrNotFound
		}
		expires := record.Interview.ExpiresAt
		if record.Interview.IsActive && expires != nil && now.After(expires.Time) {
			record.Interview.IsActive = false
		}
		return nil
	})
	if err != nil {
		return model.Interview{}, notFound(err, "Interview not found")
	}
	return record.Interview, nil
}

func (s *InterviewService) Next(ctx context.Context, userID, id int64) (model.NextQuestion, error) {
	questionID := s.interviews.NextQuestionID()

	var issued model.Question
	_, err := s.interviews.Update(ctx, id, func(record *repository.InterviewRecord) error {
		if !owns(record.Interview, userID) || !record.Interview.IsActive {
			return model.ErrNotFound
		}

		step := len(record.Interview.Questions)
		next := s.bank.At(step)
		issued = model.Question{ID: questionID, Type: next.Type, Text: next.Text, Ordinal: step + 1}
		record.Interview.Questions = append(record.Interview.Questions, issued)
		return nil
	})
	if err != nil {
		return model.NextQuestion{}, notFound(err, "Interview not found or inactive")
	}

	return model.NextQuestion{
		QuestionID: issued.ID,
		Text:       issued.Text,
		Type:       issued.Type,
		Ordinal:    issued.Ordinal,
	}, nil
}

func (s *InterviewService) Answer(ctx context.Context, userID, id int64, req model.AnswerRequest) (model.Answer, error) {
	answer := model.Answer{
		ID:         s.interviews.NextAnswerID(),
		QuestionID: &req.QuestionID,
		UserText:   &req.UserText,
		CreatedAt:  model.Timestamp{Time: s.now().UTC()},
		IsCoding:   req.IsCoding,
	}

	if req.IsCoding && req.Code != nil && strings.TrimSpace(*req.Code) != "" {
		language := ""
		if req.CodeLanguage != nil {
			language = *req.CodeLanguage
		}
		result, err := s.runner.Run(model.CodeRunRequest{Code: *req.Code, LanguageCode: languageCode(language)})
		if err != nil {
			return model.Answer{}, err
		}
		score := 0
		if result.Success {
			score = cannedCodePass
		}
		answer.Code = req.Code
		answer.CodeLanguage = req.CodeLanguage
		answer.CodeResult = &result.Output
		answer.Score = &score
	} else {
		score := CannedTextScore(req.UserText)
		answer.Score = &score
	}

	_, err := s.interviews.Update(ctx, id, func(record *repository.InterviewRecord) error {
		if !owns(record.Interview, userID) || !record.Interview.IsActive {
			return apierror.New(http.StatusNotFound, "Interview not found or inactive")
		}
		if !hasQuestion(record.Interview, req.QuestionID) {
			return apierror.New(http.StatusNotFound, "Question not found for this interview")
		}
		record.Answers = append(record.Answers, answer)
		return nil
	})
	if err != nil {
		return model.Answer{}, notFound(err, "Interview not found or inactive")
	}

	return answer, nil
}

// End closes the interview and stores the mean of its canned answer scores.
func (s *InterviewService) End(ctx context.Context, userID, id int64) (model.EndResult, error) {
	var total int
	_, err := s.interviews.Update(ctx, id, func(record *repository.InterviewRecord) error {
		if !owns(record.Interview, userID) {
			return model.ErrNotFound
		}

		scores := make([]int, 0, len(record.Answers))
		for _, answer := range record.Answers {
			if answer.Score != nil {
				scores = append(scores, *answer.Score)
			}
		}

		total = CannedTotal(scores)
		record.Interview.TotalScore = &total
		record.Interview.IsActive = false
		return nil
	})
	if err != nil {
		return model.EndResult{}, notFound(err, "Interview not found")
	}

	return model.EndResult{InterviewID: id, TotalScore: total}, nil
}

func (s *InterviewService) RunCode(req model.CodeRunRequest) (model.CodeRunResult, error) {
	return s.runner.Run(req)
}

const (
	cannedTextScore = 6
	cannedCodePass  = 10
)

// CannedTextScore is the fixed score of any non-blank text answer.
func CannedTextScore(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return cannedTextScore
}

// CannedTotal is the rounded mean of the answer scores, 0 without answers.
func CannedTotal(scores []int) int {
	return int(math.Round(average(scores)))
}

func average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	return float64(sum) / float64(len(scores))
}
