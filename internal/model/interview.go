package model

import (
	"fmt"
	"strings"
)

const (
	QuestionTypeIntro      = "intro"
	QuestionTypeResume     = "resume"
	QuestionTypeBehavioral = "behavioral"
	QuestionTypeCoding     = "coding"
	QuestionTypeGeneral    = "general"
)

type StartInterviewRequest struct {
	ResumeID         int64  `json:"resume_id"`
	JobDescriptionID int64  `json:"job_description_id"`
	UserID           *int64 `json:"user_id,omitempty"`
	TimerMinutes     int    `json:"timer_minutes"`
}

type Question struct {
	ID      int64   `json:"id"`
	Type    string  `json:"qtype"`
	Text    string  `json:"text"`
	Extra   *string `json:"extra"`
	Ordinal int     `json:"ordinal"`
}

func (q Question) IsCoding() bool {
	return strings.EqualFold(q.Type, QuestionTypeCoding)
}

type Interview struct {
	ID               int64      `json:"id"`
	ResumeID         *int64     `json:"resume_id"`
	JobDescriptionID *int64     `json:"job_description_id"`
	CreatedAt        Timestamp  `json:"created_at"`
	StartedAt        *Timestamp `json:"started_at"`
	ExpiresAt        *Timestamp `json:"expires_at"`
	IsActive         bool       `json:"is_active"`
	UserID           *int64     `json:"user_id"`
	TotalScore       *int       `json:"total_score"`
	Questions        []Question `json:"questions"`
}

func (i Interview) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("%w: interview has no id", ErrMalformedResponse)
	}
	return nil
}

// LastQuestion is the most recently issued question, if any.
func (i Interview) LastQuestion() (Question, bool) {
	if len(i.Questions) == 0 {
		return Question{}, false
	}
	return i.Questions[len(i.Questions)-1], true
}

// NextQuestion is the /interview/{id}/next payload.
type NextQuestion struct {
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Type       string `json:"qtype"`
	Ordinal    int    `json:"ordinal"`
}

func (n NextQuestion) Validate() error {
	if n.QuestionID <= 0 {
		return fmt.Errorf("%w: next question has no question_id", ErrMalformedResponse)
	}
	if n.Ordinal <= 0 {
		return fmt.Errorf("%w: next question has no ordinal", ErrMalformedResponse)
	}
	return nil
}

func (n NextQuestion) Question() Question {
	return Question{ID: n.QuestionID, Type: n.Type, Text: n.Text, Ordinal: n.Ordinal}
}

// AnswerRequest carries either a text answer or code; the unused side is
// omitted from the JSON entirely.
type AnswerRequest struct {
	QuestionID   int64   `json:"question_id"`
	UserText     string  `json:"user_text"`
	IsCoding     bool    `json:"is_coding"`
	Code         *string `json:"code,omitempty"`
	CodeLanguage *string `json:"code_language,omitempty"`
}

type Answer struct {
	ID           int64     `json:"id"`
	QuestionID   *int64    `json:"question_id"`
	UserText     *string   `json:"user_text"`
	CreatedAt    Timestamp `json:"created_at"`
	IsCoding     bool      `json:"is_coding"`
	Code         *string   `json:"code"`
	CodeLanguage *string   `json:"code_language"`
	CodeResult   *string   `json:"code_result"`
	Score        *int      `json:"score"`
}

func (a Answer) Validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("%w: answer has no id", ErrMalformedResponse)
	}
	return nil
}

type EndResult struct {
	InterviewID int64 `json:"interview_id"`
	TotalScore  int   `json:"total_score"`
}

func (e EndResult) Validate() error {
	if e.InterviewID <= 0 {
		return fmt.Errorf("%w: end result has no interview_id", ErrMalformedResponse)
	}
	return nil
}

type CodeRunRequest struct {
	Code         string  `json:"code"`
	LanguageCode string  `json:"language_code"`
	Stdin        *string `json:"stdin,omitempty"`
}

type CodeRunResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

// Summary renders the result the way the session view shows it.
func (r CodeRunResult) Summary() string {
	if r.Output != "" {
		return r.Output
	}
	if r.Success {
		return "Executed successfully"
	}
	return "Execution failed"
}
