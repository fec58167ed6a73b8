package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go-interview-client/internal/model"
	"go-interview-client/pkg/apierror"
)

func (c *Client) StartInterview(ctx context.Context, req model.StartInterviewRequest) (*model.Interview, error) {
	if req.ResumeID <= 0 || req.JobDescriptionID <= 0 {
		return nil, apierror.Validation(fmt.Errorf("%w: resume and job description are required", model.ErrInvalidInput))
	}
	if req.TimerMinutes <= 0 {
		return nil, apierror.Validation(fmt.Errorf("%w: timer must be positive", model.ErrInvalidInput))
	}

	var interview model.Interview
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: "/interview/start", Body: req}, &interview); err != nil {
		return nil, err
	}
	return &interview, nil
}

func (c *Client) GetInterview(ctx context.Context, id int64) (*model.Interview, error) {
	var interview model.Interview
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: interviewPath(id, "")}, &interview); err != nil {
		return nil, err
	}
	return &interview, nil
}

// NextQuestion asks the backend to issue the next question. The ordinal is
// the backend's; it is never recomputed here.
func (c *Client) NextQuestion(ctx context.Context, interviewID int64) (*model.Question, error) {
	var next model.NextQuestion
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: interviewPath(interviewID, "next")}, &next); err != nil {
		return nil, err
	}

	question := next.Question()
	return &question, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, interviewID int64, req model.AnswerRequest) (*model.Answer, error) {
	if req.QuestionID <= 0 {
		return nil, apierror.Validation(model.ErrNoActiveQuestion)
	}

	var answer model.Answer
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: interviewPath(interviewID, "answer"), Body: req}, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func (c *Client) EndInterview(ctx context.Context, interviewID int64) (*model.EndResult, error) {
	var result model.EndResult
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: interviewPath(interviewID, "end")}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) RunCode(ctx context.Context, req model.CodeRunRequest) (*model.CodeRunResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, apierror.Validation(fmt.Errorf("%w: no code to run", model.ErrInvalidInput))
	}
	if req.LanguageCode == "" {
		return nil, apierror.Validation(fmt.Errorf("%w: language is required", model.ErrInvalidInput))
	}

	var result model.CodeRunResult
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: "/code/run_code", Body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func interviewPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("/interview/%d", id)
	}
	return fmt.Sprintf("/interview/%d/%s", id, action)
}
