package client

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go-interview-client/internal/model"
	"go-interview-client/pkg/apierror"
)

// UploadResume sends a résumé file as multipart field "file".
func (c *Client) UploadResume(ctx context.Context, fileName, contentType string, content []byte) (*model.Resume, error) {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || len(content) == 0 {
		return nil, apierror.Validation(fmt.Errorf("%w: resume file is empty", model.ErrInvalidInput))
	}

	req := Request{
		Method: http.MethodPost,
		Path:   "/resume/upload",
		Form: &Form{
			FieldName:   "file",
			FileName:    name,
			ContentType: contentType,
			Content:     content,
		},
	}

	var resume model.Resume
	if err := c.call(ctx, req, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func (c *Client) GetResume(ctx context.Context, id int64) (*model.Resume, error) {
	var resume model.Resume
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/resume/%d", id)}, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func (c *Client) CreateJobDescription(ctx context.Context, req model.JobDescriptionRequest) (*model.JobDescription, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err)
	}

	var jd model.JobDescription
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: "/job/", Body: req}, &jd); err != nil {
		return nil, err
	}
	return &jd, nil
}

func (c *Client) GetJobDescription(ctx context.Context, id int64) (*model.JobDescription, error) {
	var jd model.JobDescription
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/job/%d", id)}, &jd); err != nil {
		return nil, err
	}
	return &jd, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, req model.FeedbackRequest) (*model.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, apierror.Validation(err)
	}
	if req.FeedbackType == "" {
		req.FeedbackType = "general"
	}

	var feedback model.Feedback
	if err := c.call(ctx, Request{Method: http.MethodPost, Path: "/feedbacks/", Body: req}, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}
