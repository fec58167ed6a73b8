package client

import (
	"context"
	"fmt"
	"net/http"

	"go-interview-client/internal/model"
)

func (c *Client) UserHistory(ctx context.Context, userID int64) (model.History, error) {
	var history model.History
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/history/user/%d", userID)}, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) LastHistory(ctx context.Context, userID int64) (*model.InterviewSummary, error) {
	var summary model.InterviewSummary
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/history/user/%d/last", userID)}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) InterviewHistory(ctx context.Context, interviewID int64) (*model.InterviewDetail, error) {
	var detail model.InterviewDetail
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/history/%d", interviewID)}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
