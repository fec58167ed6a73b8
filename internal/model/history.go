package model

import "fmt"

type InterviewSummary struct {
	ID              int64     `json:"id"`
	CreatedAt       Timestamp `json:"created_at"`
	TechnicalScore  int       `json:"technical_score"`
	BehavioralScore int       `json:"behavioral_score"`
	CodingScore     int       `json:"coding_score"`
	OverallScore    int       `json:"overall_score"`
}

func (s InterviewSummary) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("%w: history entry has no id", ErrMalformedResponse)
	}
	return nil
}

type InterviewDetail struct {
	InterviewSummary
	Feedback string `json:"feedback"`
}

type History []InterviewSummary

func (h History) Validate() error {
	for _, entry := range h {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return nil
}
