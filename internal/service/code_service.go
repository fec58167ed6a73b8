package service

import (
	"fmt"
	"net/http"
	"strings"

	"go-interview-client/internal/model"
	"go-interview-client/pkg/apierror"
)

var supportedLanguages = map[string]string{
	"python":     "Python",
	"javascript": "JavaScript",
	"go":         "Go",
	"java":       "Java",
	"cpp":        "C++",
}

// CodeRunner pretends to execute code. Nothing is compiled or run: blank
// code fails, anything else succeeds and echoes stdin.
type CodeRunner struct{}

func NewCodeRunner() *CodeRunner {
	return &CodeRunner{}
}

func (r *CodeRunner) Run(req model.CodeRunRequest) (model.CodeRunResult, error) {
	language := strings.ToLower(strings.TrimSpace(req.LanguageCode))
	name, ok := supportedLanguages[language]
	if !ok {
		return model.CodeRunResult{}, apierror.New(http.StatusBadRequest, fmt.Sprintf("Unsupported language: %s", req.LanguageCode))
	}

	if strings.TrimSpace(req.Code) == "" {
		return model.CodeRunResult{Success: false, Output: "No code to run"}, nil
	}

	output := ""
	if req.Stdin != nil {
		output = *req.Stdin
	}
	if output == "" {
		lines := strings.Count(strings.TrimRight(req.Code, "\n"), "\n") + 1
		output = fmt.Sprintf("%s: %d line(s) executed\n", name, lines)
	}
	return model.CodeRunResult{Success: true, Output: output}, nil
}

// languageCode accepts either a display name ("C++") or a code ("cpp").
func languageCode(language string) string {
	lowered := strings.ToLower(strings.TrimSpace(language))
	if _, ok := supportedLanguages[lowered]; ok {
		return lowered
	}
	for code, name := range supportedLanguages {
		if strings.EqualFold(name, lowered) {
			return code
		}
	}
	return lowered
}
