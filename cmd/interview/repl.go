package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go-interview-client/internal/model"
	"go-interview-client/internal/session"
	"go-interview-client/pkg/apierror"
)

const sessionHelp = `Type your answer; every line is added to the draft.
  :mode text|code   switch answer mode
  :lang <name>      code language (Python, JavaScript, Go, Java, C++)
  :code             enter code until :endcode
  :clear            discard the draft for the current mode
  :show             print the current question and draft
  :run              run the draft code
  :submit           submit the draft and move on
  :next             skip to a new question
  :say              read the question aloud
  :mic              start or stop speech capture
  :time             show the time left
  :end              finish the interview and get your score
  :quit             leave without ending the interview`

// syncWriter serializes countdown notices with the prompt loop's output.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// repl reads session commands line by line and drives a controller.
type repl struct {
	ctrl *session.Controller
	in   *bufio.Reader
	out  io.Writer

	inCode    bool
	codeLines []string
	shownID   int64
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Type :help for commands.")
	r.showQuestion(true)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, "\nLeaving the session. It stays open; resume it with `interview session`.")
			return nil
		}

		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		if line != "" {
			done, err := r.handle(ctx, strings.TrimRight(line, "\r\n"))
			if errors.Is(err, model.ErrSessionEnded) {
				return err
			}
			if err != nil {
				fmt.Fprintln(r.out, "Error:", apierror.UserMessage(err, "operation failed"))
			}
			if done {
				return nil
			}
		}

		if eof {
			fmt.Fprintln(r.out, "Input closed. The interview stays open; resume it with `interview session`.")
			return nil
		}
	}
}

// handle processes one input line and reports whether the session is over.
func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	trimmed := strings.TrimSpace(line)

	if r.inCode {
		if trimmed == ":endcode" {
			r.inCode = false
			if err := r.ctrl.SetCode(strings.Join(r.codeLines, "\n")); err != nil {
				return false, err
			}
			fmt.Fprintf(r.out, "Code saved (%d lines).\n", len(r.codeLines))
			r.codeLines = nil
			return false, nil
		}
		r.codeLines = append(r.codeLines, line)
		return false, nil
	}

	if !strings.HasPrefix(trimmed, ":") {
		if trimmed == "" {
			return false, nil
		}
		return false, r.ctrl.AppendText(trimmed)
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(trimmed, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "help":
		fmt.Fprintln(r.out, sessionHelp)

	case "mode":
		mode, err := session.ParseMode(arg)
		if err != nil {
			return false, apierror.Validation(err)
		}
		if err := r.ctrl.SetMode(mode); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Answer mode: %s.\n", mode)

	case "lang":
		if err := r.ctrl.SetLanguage(arg); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Language: %s.\n", r.ctrl.Snapshot().Draft.Language)

	case "code":
		if err := r.ctrl.SetMode(session.ModeCode); err != nil {
			return false, err
		}
		r.inCode = true
		r.codeLines = nil
		fmt.Fprintln(r.out, "Enter code, finish with :endcode.")

	case "clear":
		snap := r.ctrl.Snapshot()
		if snap.Draft.Mode == session.ModeCode {
			return false, r.ctrl.SetCode("")
		}
		return false, r.ctrl.SetText("")

	case "show":
		r.showQuestion(true)
		r.showDraft()

	case "run":
		result, err := r.ctrl.RunCode(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, strings.TrimRight(result.Summary(), "\n"))

	case "submit":
		err := r.ctrl.Submit(ctx)
		r.showQuestion(false)
		if err != nil {
			return false, err
		}

	case "next":
		if err := r.ctrl.LoadNextQuestion(ctx); err != nil {
			return false, err
		}
		r.showQuestion(false)

	case "say":
		r.ctrl.Speak()

	case "mic":
		recording, err := r.ctrl.ToggleCapture()
		if err != nil {
			return false, err
		}
		if recording {
			fmt.Fprintln(r.out, "Listening. Type :mic again to stop.")
		} else {
			fmt.Fprintln(r.out, "Stopped listening.")
		}

	case "time":
		snap := r.ctrl.Snapshot()
		if snap.Expired {
			fmt.Fprintln(r.out, "Time is up.")
		} else {
			fmt.Fprintf(r.out, "Time left: %s\n", session.FormatRemaining(snap.Remaining, snap.TimeKnown))
		}

	case "end":
		result, err := r.ctrl.End(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Interview #%d finished. Total score: %d.\n", result.InterviewID, result.TotalScore)
		fmt.Fprintf(r.out, "See the breakdown with `interview history %d`.\n", result.InterviewID)
		return true, nil

	case "quit", "exit":
		fmt.Fprintln(r.out, "Leaving the session. It stays open; resume it with `interview session`.")
		return true, nil

	default:
		fmt.Fprintf(r.out, "Unknown command %q. Type :help for the list.\n", name)
	}

	return false, nil
}

// showQuestion prints the current question. Unless forced it stays quiet
// when the question has not changed since it was last shown.
func (r *repl) showQuestion(force bool) {
	snap := r.ctrl.Snapshot()
	if snap.Question == nil {
		fmt.Fprintln(r.out, "No question yet. Type :next to ask for one.")
		return
	}
	if !force && snap.Question.ID == r.shownID {
		return
	}
	r.shownID = snap.Question.ID

	q := snap.Question
	fmt.Fprintf(r.out, "\nQuestion %d (%s) [%s]\n%s\n", q.Ordinal, q.Type, session.FormatRemaining(snap.Remaining, snap.TimeKnown), q.Text)
	if q.IsCoding() {
		fmt.Fprintln(r.out, "Answer with :code ... :endcode, try it with :run, then :submit.")
	}
}

func (r *repl) showDraft() {
	d := r.ctrl.Snapshot().Draft
	fmt.Fprintf(r.out, "Mode: %s, language: %s\n", d.Mode, d.Language)
	if d.Text != "" {
		fmt.Fprintf(r.out, "Text:\n%s\n", d.Text)
	}
	if d.Code != "" {
		fmt.Fprintf(r.out, "Code:\n%s\n", d.Code)
	}
}

// timeAlerts prints a notice when the countdown crosses a few marks.
type timeAlerts struct {
	mu    sync.Mutex
	out   io.Writer
	marks []int
	next  int
}

func newTimeAlerts(out io.Writer) *timeAlerts {
	return &timeAlerts{out: out, marks: []int{300, 60, 0}}
}

func (a *timeAlerts) observe(remaining int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	crossed := -1
	for a.next < len(a.marks) && remaining <= a.marks[a.next] {
		crossed = a.marks[a.next]
		a.next++
	}

	switch {
	case crossed < 0:
	case crossed == 0:
		fmt.Fprintln(a.out, "\nTime is up. Submit your last answer or type :end.")
	default:
		fmt.Fprintf(a.out, "\n%s left.\n", session.FormatRemaining(remaining, true))
	}
}
