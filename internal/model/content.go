package model

import (
	"fmt"
	"strings"
)

type Resume struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	RawText    *string   `json:"raw_text"`
	UploadedAt Timestamp `json:"uploaded_at"`
	UserID     *int64    `json:"user_id"`
}

func (r Resume) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: resume has no id", ErrMalformedResponse)
	}
	return nil
}

type JobDescriptionRequest struct {
	Title  string `json:"title,omitempty"`
	JDText string `json:"jd_text"`
	UserID *int64 `json:"user_id,omitempty"`
}

func (r JobDescriptionRequest) Validate() error {
	if strings.TrimSpace(r.JDText) == "" {
		return fmt.Errorf("%w: job description text is required", ErrInvalidInput)
	}
	return nil
}

type JobDescription struct {
	ID         int64     `json:"id"`
	Title      *string   `json:"title"`
	JDText     string    `json:"jd_text"`
	UploadedAt Timestamp `json:"uploaded_at"`
	UserID     *int64    `json:"user_id"`
}

func (j JobDescription) Validate() error {
	if j.ID <= 0 {
		return fmt.Errorf("%w: job description has no id", ErrMalformedResponse)
	}
	return nil
}

type FeedbackRequest struct {
	Email        string `json:"email"`
	FeedbackType string `json:"feedback_type"`
	FeedbackText string `json:"feedback_text"`
}

func (r FeedbackRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.FeedbackText) == "" {
		return fmt.Errorf("%w: feedback text is required", ErrInvalidInput)
	}
	return nil
}

type Feedback struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FeedbackType string `json:"feedback_type"`
	FeedbackText string `json:"feedback_text"`
}

func (f Feedback) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("%w: feedback has no id", ErrMalformedResponse)
	}
	return nil
}
