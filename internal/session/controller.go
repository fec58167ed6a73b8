// Package session drives one interview: load, show a question, collect the
// answer, submit, advance, until the interview is ended. The countdown
// only informs; nothing is submitted or ended automatically.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-interview-client/internal/event"
	"go-interview-client/internal/model"
	"go-interview-client/internal/speech"
	"go-interview-client/pkg/apierror"
)

// API is the slice of the backend a session talks to.
type API interface {
	GetInterview(ctx context.Context, id int64) (*model.Interview, error)
	NextQuestion(ctx context.Context, interviewID int64) (*model.Question, error)
	SubmitAnswer(ctx context.Context, interviewID int64, req model.AnswerRequest) (*model.Answer, error)
	EndInterview(ctx context.Context, interviewID int64) (*model.EndResult, error)
	RunCode(ctx context.Context, req model.CodeRunRequest) (*model.CodeRunResult, error)
}

type Options struct {
	API    API
	Speech speech.Speech
	Bus    event.Bus
	Logger *slog.Logger
	// Now and TickInterval drive the countdown; tests replace them.
	Now          func() time.Time
	TickInterval time.Duration
	Language     string
	// OnRedirect fires once when the interview turns out to be inactive.
	OnRedirect func()
	// OnTick receives each countdown value.
	OnTick func(remaining int)
}

// Snapshot is a consistent copy of what a view renders.
type Snapshot struct {
	State       State
	InterviewID int64
	Question    *model.Question
	Draft       Draft
	Remaining   int
	TimeKnown   bool
	Expired     bool
	Recording   bool
	LastError   string
	RunOutput   string
	Result      *model.EndResult
}

// Controller serializes operations with opMu; mu guards the fields and is
// never held across a backend call or while stopping the countdown.
type Controller struct {
	api    API
	speech speech.Speech
	bus    event.Bus
	logger *slog.Logger
	now    func() time.Time
	tick   time.Duration
	onTick func(int)

	opMu sync.Mutex

	mu          sync.Mutex
	state       State
	interviewID int64
	question    *model.Question
	draft       Draft
	remaining   int
	timeKnown   bool
	expired     bool
	lastErr     error
	runOutput   string
	result      *model.EndResult
	countdown   *Countdown
	capture     speech.Capture
	closed      bool

	redirectOnce sync.Once
	onRedirect   func()
}

func New(opts Options) (*Controller, error) {
	if opts.API == nil {
		return nil, errors.New("session requires an API")
	}

	c := &Controller{
		api:        opts.API,
		speech:     opts.Speech,
		bus:        opts.Bus,
		logger:     opts.Logger,
		now:        opts.Now,
		tick:       opts.TickInterval,
		onTick:     opts.OnTick,
		onRedirect: opts.OnRedirect,
		draft:      NewDraft(opts.Language),
	}
	if c.speech == nil {
		c.speech = speech.None{}
	}
	if c.bus == nil {
		c.bus = event.Nop{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}

	return c, nil
}

// Load fetches the interview and shows its latest question, asking for the
// first one when none was issued yet. An inactive interview moves the
// session to StateRedirected and returns model.ErrInterviewInactive.
func (c *Controller) Load(ctx context.Context, interviewID int64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	prev := c.state
	c.state = StateLoading
	c.interviewID = interviewID
	c.lastErr = nil
	c.mu.Unlock()

	interview, err := c.api.GetInterview(ctx, interviewID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrSessionClosed
	}
	if err != nil {
		c.state = prev
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("failed to load interview", "interview_id", interviewID, "error", err)
		return err
	}

	if !interview.IsActive {
		c.state = StateRedirected
		c.question = nil
		c.mu.Unlock()

		c.logger.Info("interview inactive, leaving session", "interview_id", interviewID)
		c.publish(event.TypeSessionRedirected, nil)
		c.redirectOnce.Do(func() {
			if c.onRedirect != nil {
				c.onRedirect()
			}
		})
		return model.ErrInterviewInactive
	}
	c.mu.Unlock()

	c.startCountdown(interview.ExpiresAt)
	c.publish(event.TypeSessionLoaded, map[string]any{"questions": len(interview.Questions)})

	if last, ok := interview.LastQuestion(); ok {
		c.display(last)
		return nil
	}

	return c.loadNext(ctx)
}

// LoadNextQuestion replaces the current question with a freshly issued one.
func (c *Controller) LoadNextQuestion(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	err := c.loadedLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	return c.loadNext(ctx)
}

func (c *Controller) loadNext(ctx context.Context) error {
	c.mu.Lock()
	prev := c.state
	if prev != StateSubmitting {
		c.state = StateLoading
	}
	id := c.interviewID
	c.mu.Unlock()

	question, err := c.api.NextQuestion(ctx, id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrSessionClosed
	}
	if err != nil {
		c.state = StateIdle
		if c.question != nil {
			c.state = StateQuestionDisplayed
		}
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("failed to load next question", "interview_id", id, "error", err)
		return err
	}
	c.mu.Unlock()

	c.display(*question)
	return nil
}

func (c *Controller) display(q model.Question) {
	c.mu.Lock()
	c.question = &q
	c.draft.Reset()
	c.state = StateQuestionDisplayed
	c.lastErr = nil
	c.runOutput = ""
	id := c.interviewID
	c.mu.Unlock()

	c.logger.Debug("question displayed", "interview_id", id, "question_id", q.ID, "ordinal", q.Ordinal)
	c.publish(event.TypeQuestionDisplayed, map[string]any{
		"question_id": q.ID,
		"ordinal":     q.Ordinal,
		"qtype":       q.Type,
		"text":        q.Text,
	})
	c.speech.Speak(q.Text)
}

// Submit sends the draft for the current question and, once the backend
// accepted it, moves on to the next question. A failed submit keeps both
// the question and the draft.
func (c *Controller) Submit(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.loadedLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.question == nil {
		err := apierror.Validation(model.ErrNoActiveQuestion)
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.state = StateSubmitting
	c.lastErr = nil
	id := c.interviewID
	questionID := c.question.ID
	req := c.draft.Answer(questionID)
	c.mu.Unlock()

	answer, err := c.api.SubmitAnswer(ctx, id, req)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ErrSessionClosed
	}
	if err != nil {
		c.state = StateQuestionDisplayed
		c.lastErr = err
		c.mu.Unlock()

		c.logger.Warn("answer rejected", "interview_id", id, "question_id", questionID, "error", err)
		c.publish(event.TypeAnswerFailed, map[string]any{"question_id": questionID, "error": err.Error()})
		return err
	}
	c.draft.Reset()
	c.mu.Unlock()

	c.publish(event.TypeAnswerSubmitted, map[string]any{"question_id": questionID, "answer_id": answer.ID, "is_coding": req.IsCoding})

	return c.loadNext(ctx)
}

// End finishes the interview on the backend. On failure nothing changes
// locally.
func (c *Controller) End(ctx context.Context) (*model.EndResult, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if err := c.loadedLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	id := c.interviewID
	c.mu.Unlock()

	result, err := c.api.EndInterview(ctx, id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, model.ErrSessionClosed
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("failed to end interview", "interview_id", id, "error", err)
		return nil, err
	}
	c.state = StateEnded
	c.result = result
	c.lastErr = nil
	c.mu.Unlock()

	c.stopBackground()

	c.logger.Info("interview ended", "interview_id", id, "total_score", result.TotalScore)
	c.publish(event.TypeSessionEnded, map[string]any{"total_score": result.TotalScore})
	return result, nil
}

// RunCode executes the draft code through the backend and keeps the output
// for display. It does not touch the session state.
func (c *Controller) RunCode(ctx context.Context) (*model.CodeRunResult, error) {
	c.mu.Lock()
	if err := c.loadedLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	req := model.CodeRunRequest{Code: c.draft.Code, LanguageCode: LanguageCode(c.draft.Language)}
	c.mu.Unlock()

	result, err := c.api.RunCode(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, model.ErrSessionClosed
	}
	if err != nil {
		c.runOutput = ""
		c.lastErr = err
		return nil, err
	}
	c.runOutput = result.Summary()
	return result, nil
}

// Close tears the session down. Responses still in flight are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.stopBackground()
}

func (c *Controller) SetMode(mode Mode) error {
	return c.edit(func(d *Draft) { d.Mode = mode })
}

func (c *Controller) SetLanguage(language string) error {
	language = NormalizeLanguage(language)
	if language == "" {
		return apierror.Validation(fmt.Errorf("%w: language is required", model.ErrInvalidInput))
	}
	return c.edit(func(d *Draft) { d.Language = language })
}

func (c *Controller) SetText(text string) error {
	return c.edit(func(d *Draft) { d.Text = text })
}

func (c *Controller) AppendText(line string) error {
	return c.edit(func(d *Draft) { d.AppendLine(line) })
}

func (c *Controller) SetCode(code string) error {
	return c.edit(func(d *Draft) { d.Code = code })
}

func (c *Controller) edit(fn func(*Draft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return model.ErrSessionClosed
	}
	if c.state.Terminal() {
		return model.ErrSessionFinished
	}
	fn(&c.draft)
	return nil
}

// ToggleCapture starts or stops speech capture and reports whether it is
// now recording. Recognized text is appended to the text draft.
func (c *Controller) ToggleCapture() (bool, error) {
	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return false, err
	}
	active := c.capture
	c.capture = nil
	c.mu.Unlock()

	if active != nil {
		active.Stop()
		return false, nil
	}

	capture, err := c.speech.StartCapture(func(text string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.closed && !c.state.Terminal() {
			c.draft.AppendTranscript(text)
		}
	})
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		capture.Stop()
		return false, model.ErrSessionClosed
	}
	c.capture = capture
	c.mu.Unlock()
	return true, nil
}

// Speak reads the current question again.
func (c *Controller) Speak() {
	c.mu.Lock()
	var text string
	if c.question != nil {
		text = c.question.Text
	}
	c.mu.Unlock()

	c.speech.Speak(text)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:       c.state,
		InterviewID: c.interviewID,
		Draft:       c.draft,
		Remaining:   c.remaining,
		TimeKnown:   c.timeKnown,
		Expired:     c.expired,
		Recording:   c.capture != nil,
		RunOutput:   c.runOutput,
		Result:      c.result,
	}
	if c.question != nil {
		q := *c.question
		snap.Question = &q
	}
	if c.lastErr != nil {
		snap.LastError = apierror.UserMessage(c.lastErr, "operation failed")
	}
	return snap
}

func (c *Controller) startCountdown(expiresAt *model.Timestamp) {
	if expiresAt == nil || expiresAt.IsZero() {
		return
	}

	countdown := NewCountdown(expiresAt.Time, c.now, c.tick, c.handleTick)
	countdown.Start(context.Background())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		countdown.Stop()
		return
	}
	previous := c.countdown
	c.countdown = countdown
	c.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}
}

func (c *Controller) handleTick(remaining int) {
	c.mu.Lock()
	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		return
	}
	c.remaining = remaining
	c.timeKnown = true
	justExpired := remaining == 0 && !c.expired
	if justExpired {
		c.expired = true
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	c.publish(event.TypeTick, map[string]any{"remaining": remaining})
	if justExpired {
		c.logger.Info("interview time is up")
		c.publish(event.TypeSessionExpired, nil)
	}
}

// stopBackground must be called without mu held.
func (c *Controller) stopBackground() {
	c.mu.Lock()
	countdown := c.countdown
	capture := c.capture
	c.capture = nil
	c.mu.Unlock()

	if countdown != nil {
		countdown.Stop()
	}
	if capture != nil {
		capture.Stop()
	}
}

func (c *Controller) usableLocked() error {
	if c.closed {
		return model.ErrSessionClosed
	}
	if c.state.Terminal() {
		return model.ErrSessionFinished
	}
	return nil
}

func (c *Controller) loadedLocked() error {
	if err := c.usableLocked(); err != nil {
		return err
	}
	if c.interviewID == 0 {
		return model.ErrInterviewNotLoaded
	}
	return nil
}

func (c *Controller) publish(typ event.Type, payload any) {
	c.mu.Lock()
	id := c.interviewID
	c.mu.Unlock()

	c.bus.Publish(event.New(typ, id, payload))
}
