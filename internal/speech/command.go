package speech

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const waitDelay = time.Second

// Command runs host programs through the shell. The synth program receives
// the text on stdin; the capture program prints one transcript per line.
type Command struct {
	synth   string
	capture string

	mu       sync.Mutex
	speaking context.CancelFunc
}

func NewCommand(synthCmd, captureCmd string) *Command {
	return &Command{synth: strings.TrimSpace(synthCmd), capture: strings.TrimSpace(captureCmd)}
}

func (c *Command) Available() bool {
	return c.capture != ""
}

func (c *Command) Speak(text string) {
	if c.synth == "" || strings.TrimSpace(text) == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.speaking != nil {
		c.speaking()
	}
	c.speaking = cancel
	c.mu.Unlock()

	cmd := exec.CommandContext(ctx, "sh", "-c", c.synth)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Start(); err != nil {
		cancel()
		slog.Warn("speech synthesis failed to start", "error", err)
		return
	}

	go func() {
		_ = cmd.Wait()
		cancel()
	}()
}

func (c *Command) StartCapture(onText func(string)) (Capture, error) {
	if c.capture == "" {
		return nil, ErrUnavailable
	}

	ctx, cancel := context.WithCancel(context.Background())
	reader, writer := io.Pipe()
	cmd := exec.CommandContext(ctx, "sh", "-c", c.capture)
	cmd.Stdout = writer
	// Children of the shell may hold stdout open after it is killed.
	cmd.WaitDelay = waitDelay
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, err
	}

	go func() {
		writer.CloseWithError(cmd.Wait())
	}()

	capture := &commandCapture{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(capture.done)

		scanner := bufio.NewScanner(reader)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && onText != nil {
				onText(line)
			}
		}
	}()

	return capture, nil
}

type commandCapture struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop kills the capture program and waits for its output to drain.
func (c *commandCapture) Stop() {
	c.once.Do(func() {
		c.cancel()
		<-c.done
	})
}
