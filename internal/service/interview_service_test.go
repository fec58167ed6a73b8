package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/pkg/apierror"
)

type interviewFixture struct {
	svc     *InterviewService
	history *HistoryService
	content *repository.ContentRepository
	clock   *testClock
}

func newInterviewFixture(t *testing.T) interviewFixture {
	t.Helper()

	bank, err := LoadQuestionBank("")
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	interviews := repository.NewInterviewRepository()
	content := repository.NewContentRepository()

	return interviewFixture{
		svc:     NewInterviewService(interviews, content, bank, NewCodeRunner(), 120, clock.Now),
		history: NewHistoryService(interviews),
		content: content,
		clock:   clock,
	}
}

func TestInterviewServiceStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInterviewFixture(t)

	_, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{ResumeID: 9, TimerMinutes: 30})
	require.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	resume := f.content.CreateResume(ctx, model.Resume{Filename: "cv.pdf"})
	interview, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{ResumeID: resume.ID, TimerMinutes: 30})
	require.NoError(t, err)
	require.True(t, interview.IsActive)
	require.Equal(t, 30*time.Minute, interview.ExpiresAt.Sub(interview.StartedAt.Time))

	first, ok := interview.LastQuestion()
	require.True(t, ok)
	require.Equal(t, 1, first.Ordinal)
	require.Equal(t, model.QuestionTypeIntro, first.Type)

	capped, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{TimerMinutes: 500})
	require.NoError(t, err)
	require.Equal(t, 120*time.Minute, capped.ExpiresAt.Sub(capped.StartedAt.Time))

	defaulted, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{})
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, defaulted.ExpiresAt.Sub(defaulted.StartedAt.Time))
}

func TestInterviewServiceFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInterviewFixture(t)

	interview, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{TimerMinutes: 30})
	require.NoError(t, err)
	first, _ := interview.LastQuestion()

	answer, err := f.svc.Answer(ctx, 1, interview.ID, model.AnswerRequest{
		QuestionID: first.ID,
		UserText:   strings.Repeat("word ", 45),
	})
	require.NoError(t, err)
	require.Equal(t, 6, *answer.Score)

	next, err := f.svc.Next(ctx, 1, interview.ID)
	require.NoError(t, err)
	require.Equal(t, 2, next.Ordinal)
	require.Equal(t, model.QuestionTypeResume, next.Type)
	require.NoError(t, next.Validate())

	_, err = f.svc.Answer(ctx, 1, interview.ID, model.AnswerRequest{QuestionID: 999, UserText: "x"})
	require.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	code, lang := "print('hi')", "Python"
	coded, err := f.svc.Answer(ctx, 1, interview.ID, model.AnswerRequest{
		QuestionID: next.QuestionID, IsCoding: true, Code: &code, CodeLanguage: &lang,
	})
	require.NoError(t, err)
	require.Equal(t, 10, *coded.Score)
	require.NotNil(t, coded.CodeResult)

	// Other users cannot see or drive the interview.
	_, err = f.svc.Next(ctx, 2, interview.ID)
	require.Equal(t, http.StatusNotFound, apierror.StatusOf(err))

	result, err := f.svc.End(ctx, 1, interview.ID)
	require.NoError(t, err)
	// (6 + 10) / 2
	require.Equal(t, 8, result.TotalScore)

	loaded, err := f.svc.Get(ctx, 1, interview.ID)
	require.NoError(t, err)
	require.False(t, loaded.IsActive)
	require.Equal(t, 8, *loaded.TotalScore)

	_, err = f.svc.Next(ctx, 1, interview.ID)
	require.Equal(t, "Interview not found or inactive", apiMessage(err))
}

func TestInterviewServiceGetDeactivatesExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInterviewFixture(t)

	interview, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{TimerMinutes: 1})
	require.NoError(t, err)

	loaded, err := f.svc.Get(ctx, 1, interview.ID)
	require.NoError(t, err)
	require.True(t, loaded.IsActive)

	f.clock.Advance(2 * time.Minute)
	loaded, err = f.svc.Get(ctx, 1, interview.ID)
	require.NoError(t, err)
	require.False(t, loaded.IsActive)
}

func TestHistoryService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInterviewFixture(t)

	_, err := f.history.Last(ctx, 1, 1)
	require.Equal(t, "No interviews found", apiMessage(err))

	older, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	newer, err := f.svc.Start(ctx, 1, model.StartInterviewRequest{})
	require.NoError(t, err)

	// step 1 is a resume question
	next, err := f.svc.Next(ctx, 1, newer.ID)
	require.NoError(t, err)
	_, err = f.svc.Answer(ctx, 1, newer.ID, model.AnswerRequest{QuestionID: next.QuestionID, UserText: strings.Repeat("w ", 80)})
	require.NoError(t, err)

	history, err := f.history.UserHistory(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, newer.ID, history[0].ID)
	require.Equal(t, older.ID, history[1].ID)
	require.Equal(t, 6, history[0].TechnicalScore)
	require.Equal(t, 2, history[0].OverallScore)

	last, err := f.history.Last(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, newer.ID, last.ID)

	_, err = f.history.UserHistory(ctx, 2, 1)
	require.Equal(t, http.StatusForbidden, apierror.StatusOf(err))

	detail, err := f.history.Detail(ctx, 1, newer.ID)
	require.NoError(t, err)
	require.Contains(t, detail.Feedback, "Your technical knowledge seems solid.")
	require.Contains(t, detail.Feedback, "Focus more on coding practice")

	_, err = f.history.Detail(ctx, 2, newer.ID)
	require.Equal(t, http.StatusNotFound, apierror.StatusOf(err))
}

func TestCannedScores(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, CannedTextScore("   "))
	require.Equal(t, 6, CannedTextScore("short answer"))
	require.Equal(t, 6, CannedTextScore(strings.Repeat("w ", 500)))
	require.Equal(t, 0, CannedTotal(nil))
	require.Equal(t, 8, CannedTotal([]int{6, 10}))
	require.Equal(t, 5, CannedTotal([]int{10, 0}))
}

func TestCodeRunner(t *testing.T) {
	t.Parallel()
	runner := NewCodeRunner()

	_, err := runner.Run(model.CodeRunRequest{Code: "x", LanguageCode: "cobol"})
	require.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))

	blank, err := runner.Run(model.CodeRunRequest{Code: "  ", LanguageCode: "go"})
	require.NoError(t, err)
	require.False(t, blank.Success)

	stdin := "42\n"
	echoed, err := runner.Run(model.CodeRunRequest{Code: "package main", LanguageCode: "go", Stdin: &stdin})
	require.NoError(t, err)
	require.True(t, echoed.Success)
	require.Equal(t, "42\n", echoed.Output)

	require.Equal(t, "cpp", languageCode("C++"))
	require.Equal(t, "javascript", languageCode("JavaScript"))
}

func apiMessage(err error) string {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	return apiErr.Message
}
