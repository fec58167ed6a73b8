package session

import (
	"fmt"
	"strings"

	"go-interview-client/internal/model"
)

type Mode string

const (
	ModeText Mode = "text"
	ModeCode Mode = "code"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeText:
		return ModeText, nil
	case ModeCode:
		return ModeCode, nil
	default:
		return "", fmt.Errorf("%w: mode must be text or code", model.ErrInvalidInput)
	}
}

const DefaultLanguage = "Python"

// Languages offered for code answers, by display name.
var Languages = []string{"Python", "JavaScript", "Go", "Java", "C++"}

var languageCodes = map[string]string{
	"Python":     "python",
	"JavaScript": "javascript",
	"Go":         "go",
	"Java":       "java",
	"C++":        "cpp",
}

// LanguageCode maps a display name to the identifier code execution expects.
func LanguageCode(language string) string {
	if code, ok := languageCodes[language]; ok {
		return code
	}
	return strings.ToLower(language)
}

// NormalizeLanguage matches a user-typed language against Languages, case
// insensitively. Unknown names are returned trimmed.
func NormalizeLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, name := range Languages {
		if strings.EqualFold(name, raw) || strings.EqualFold(languageCodes[name], raw) {
			return name
		}
	}
	return raw
}

// Draft is the in-progress answer to the current question.
type Draft struct {
	Mode     Mode
	Text     string
	Code     string
	Language string
}

func NewDraft(language string) Draft {
	if language == "" {
		language = DefaultLanguage
	}
	return Draft{Mode: ModeText, Language: language}
}

// Reset clears the answer bodies and keeps mode and language.
func (d *Draft) Reset() {
	d.Text = ""
	d.Code = ""
}

// AppendTranscript adds a recognized speech fragment.
func (d *Draft) AppendTranscript(fragment string) {
	d.Text = d.Text + " " + fragment
}

// AppendLine adds a typed line to the text answer.
func (d *Draft) AppendLine(line string) {
	if d.Text == "" {
		d.Text = line
		return
	}
	d.Text = d.Text + "\n" + line
}

// Answer packages the draft for submission. Only the side matching the mode
// is sent.
func (d Draft) Answer(questionID int64) model.AnswerRequest {
	req := model.AnswerRequest{QuestionID: questionID}

	if d.Mode == ModeCode {
		code := d.Code
		language := d.Language
		req.IsCoding = true
		req.Code = &code
		req.CodeLanguage = &language
		return req
	}

	req.UserText = d.Text
	return req
}
