package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-interview-client/internal/client"
	"go-interview-client/internal/credentials"
	"go-interview-client/internal/model"
	"go-interview-client/internal/session"
	"go-interview-client/pkg/apierror"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetInterview(ctx context.Context, id int64) (*model.Interview, error) {
	args := m.Called(ctx, id)
	interview, _ := args.Get(0).(*model.Interview)
	return interview, args.Error(1)
}

func (m *MockAPI) NextQuestion(ctx context.Context, interviewID int64) (*model.Question, error) {
	args := m.Called(ctx, interviewID)
	question, _ := args.Get(0).(*model.Question)
	return question, args.Error(1)
}

func (m *MockAPI) SubmitAnswer(ctx context.Context, interviewID int64, req model.AnswerRequest) (*model.Answer, error) {
	args := m.Called(ctx, interviewID, req)
	answer, _ := args.Get(0).(*model.Answer)
	return answer, args.Error(1)
}

func (m *MockAPI) EndInterview(ctx context.Context, interviewID int64) (*model.EndResult, error) {
	args := m.Called(ctx, interviewID)
	result, _ := args.Get(0).(*model.EndResult)
	return result, args.Error(1)
}

func (m *MockAPI) RunCode(ctx context.Context, req model.CodeRunRequest) (*model.CodeRunResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*model.CodeRunResult)
	return result, args.Error(1)
}

var replNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func loadedRepl(t *testing.T, api *MockAPI, input string, q model.Question) (*repl, *bytes.Buffer) {
	t.Helper()

	expires := model.Timestamp{Time: replNow.Add(90 * time.Second)}
	api.On("GetInterview", mock.Anything, int64(7)).
		Return(&model.Interview{ID: 7, IsActive: true, ExpiresAt: &expires, Questions: []model.Question{q}}, nil).Once()

	ctrl, err := session.New(session.Options{
		API:          api,
		Now:          func() time.Time { return replNow },
		TickInterval: time.Hour,
		Language:     "Python",
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	require.NoError(t, ctrl.Load(context.Background(), 7))

	var out bytes.Buffer
	return &repl{ctrl: ctrl, in: bufio.NewReader(strings.NewReader(input)), out: &out}, &out
}

func TestReplTextAnswerAndEnd(t *testing.T) {
	api := new(MockAPI)
	first := model.Question{ID: 1, Type: model.QuestionTypeIntro, Text: "Tell me about yourself.", Ordinal: 1}
	r, out := loadedRepl(t, api, "I build services\nin Go\n:submit\n:time\n:end\n", first)

	api.On("SubmitAnswer", mock.Anything, int64(7), model.AnswerRequest{QuestionID: 1, UserText: "I build services\nin Go"}).
		Return(&model.Answer{ID: 10}, nil).Once()
	api.On("NextQuestion", mock.Anything, int64(7)).
		Return(&model.Question{ID: 2, Type: model.QuestionTypeBehavioral, Text: "Describe a conflict.", Ordinal: 2}, nil).Once()
	api.On("EndInterview", mock.Anything, int64(7)).
		Return(&model.EndResult{InterviewID: 7, TotalScore: 6}, nil).Once()

	require.NoError(t, r.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Question 1 (intro) [1:30]")
	assert.Contains(t, text, "Question 2 (behavioral)")
	assert.Contains(t, text, "Time left: 1:30")
	assert.Contains(t, text, "Total score: 6")
	api.AssertExpectations(t)
}

func TestReplCodeAnswer(t *testing.T) {
	api := new(MockAPI)
	q := model.Question{ID: 3, Type: model.QuestionTypeCoding, Text: "Reverse a string.", Ordinal: 3}
	input := ":lang go\n:code\nfunc main() {\n}\n:endcode\n:run\n:submit\n"
	r, out := loadedRepl(t, api, input, q)

	code := "func main() {\n}"
	lang := "Go"
	api.On("RunCode", mock.Anything, model.CodeRunRequest{Code: code, LanguageCode: "go"}).
		Return(&model.CodeRunResult{Success: true, Output: "Go: 2 line(s) executed\n"}, nil).Once()
	api.On("SubmitAnswer", mock.Anything, int64(7), model.AnswerRequest{QuestionID: 3, IsCoding: true, Code: &code, CodeLanguage: &lang}).
		Return(&model.Answer{ID: 11}, nil).Once()
	api.On("NextQuestion", mock.Anything, int64(7)).
		Return(&model.Question{ID: 4, Type: model.QuestionTypeCoding, Text: "Sum a list.", Ordinal: 4}, nil).Once()

	require.NoError(t, r.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Answer with :code")
	assert.Contains(t, text, "Language: Go.")
	assert.Contains(t, text, "Code saved (2 lines).")
	assert.Contains(t, text, "Go: 2 line(s) executed")
	assert.Contains(t, text, "Question 4 (coding)")
	assert.Contains(t, text, "Input closed.")
	api.AssertExpectations(t)
}

func TestReplRejectedSubmitKeepsDraft(t *testing.T) {
	api := new(MockAPI)
	q := model.Question{ID: 1, Type: model.QuestionTypeIntro, Text: "Tell me about yourself.", Ordinal: 1}
	r, out := loadedRepl(t, api, "my answer\n:submit\n:show\n:quit\n", q)

	api.On("SubmitAnswer", mock.Anything, int64(7), mock.Anything).
		Return(nil, apierror.New(http.StatusNotFound, "Interview not found or inactive")).Once()

	require.NoError(t, r.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Error: Interview not found or inactive (404)")
	assert.Contains(t, text, "Text:\nmy answer")
	assert.Contains(t, text, "Leaving the session.")
	api.AssertNotCalled(t, "NextQuestion", mock.Anything, mock.Anything)
}

func TestReplUnknownCommandAndBadMode(t *testing.T) {
	api := new(MockAPI)
	q := model.Question{ID: 1, Type: model.QuestionTypeIntro, Text: "Hi.", Ordinal: 1}
	r, out := loadedRepl(t, api, ":dance\n:mode voice\n:mic\n", q)

	require.NoError(t, r.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, `Unknown command "dance"`)
	assert.Contains(t, text, "mode must be text or code")
	assert.Contains(t, text, "speech capture is not available")
}

func TestTimeAlerts(t *testing.T) {
	var out bytes.Buffer
	alerts := newTimeAlerts(&out)

	alerts.observe(900)
	assert.Empty(t, out.String())

	alerts.observe(299)
	assert.Contains(t, out.String(), "4:59 left.")

	out.Reset()
	alerts.observe(250)
	assert.Empty(t, out.String())

	alerts.observe(30)
	assert.Contains(t, out.String(), "0:30 left.")

	out.Reset()
	alerts.observe(0)
	assert.Contains(t, out.String(), "Time is up.")

	out.Reset()
	alerts.observe(0)
	assert.Empty(t, out.String())
}

func TestReplLeavesWhenRefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/interview/7":
			expires := model.Timestamp{Time: replNow.Add(10 * time.Minute)}
			_ = json.NewEncoder(w).Encode(model.Interview{
				ID:        7,
				IsActive:  true,
				ExpiresAt: &expires,
				Questions: []model.Question{{ID: 1, Type: model.QuestionTypeIntro, Text: "Tell me about yourself.", Ordinal: 1}},
			})
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Refresh token expired"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
		}
	}))
	t.Cleanup(srv.Close)

	store := credentials.NewMemoryStore(credentials.Pair{AccessToken: "access-1", RefreshToken: "refresh-1"})
	api, err := client.New(client.Options{BaseURL: srv.URL, HTTPClient: srv.Client(), Store: store})
	require.NoError(t, err)

	ctrl, err := session.New(session.Options{
		API:          api,
		Now:          func() time.Time { return replNow },
		TickInterval: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	require.NoError(t, ctrl.Load(context.Background(), 7))

	var out bytes.Buffer
	r := &repl{ctrl: ctrl, in: bufio.NewReader(strings.NewReader("my answer\n:submit\n:show\n")), out: &out}

	err = r.run(context.Background())

	require.ErrorIs(t, err, model.ErrSessionEnded)
	assert.Equal(t, http.StatusUnauthorized, apierror.StatusOf(err))
	assert.NotContains(t, out.String(), "Text:\nmy answer", "the loop stops at the failed submit")

	pair, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.True(t, pair.Empty())
}
