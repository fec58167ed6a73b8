package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"go-interview-client/internal/client"
	"go-interview-client/internal/config"
	"go-interview-client/internal/credentials"
	"go-interview-client/internal/event"
	"go-interview-client/internal/model"
	"go-interview-client/internal/speech"
	"go-interview-client/pkg/apierror"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// cli holds everything one invocation of the terminal client shares
// between commands.
type cli struct {
	cfg      *config.Client
	api      *client.Client
	registry *prometheus.Registry
	speech   speech.Speech
	bus      *event.InMemoryBus
	in       *bufio.Reader
	out      io.Writer
	log      *slog.Logger
}

func newCLI(cfg *config.Client, in io.Reader, out io.Writer, log *slog.Logger) (*cli, error) {
	if log == nil {
		log = slog.Default()
	}

	var store credentials.Store
	if cfg.CredentialMode == credentials.ModeToken {
		fileStore, err := credentials.NewFileStore(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	registry := prometheus.NewRegistry()
	api, err := client.New(client.Options{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Mode:       cfg.CredentialMode,
		Store:      store,
		Metrics:    client.NewMetrics(registry),
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	return &cli{
		cfg:      cfg,
		api:      api,
		registry: registry,
		speech:   speech.New(cfg.SpeechSynthCmd, cfg.SpeechCaptureCmd),
		bus:      event.NewBus(),
		in:       bufio.NewReader(in),
		out:      out,
		log:      log,
	}, nil
}

// run dispatches one command line and maps the outcome to an exit code.
func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		c.usage()
		return exitUsage
	}

	err := c.dispatch(ctx, args[0], args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, model.ErrSessionEnded):
		fmt.Fprintln(c.out, "Your session ended. Please log in again.")
		return exitError
	default:
		fmt.Fprintln(c.out, "Error:", apierror.UserMessage(err, "request failed"))
		c.log.Debug("command failed", "command", args[0], "error", err)
		return exitError
	}
}

func (c *cli) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := lookup(name)
	if !ok {
		fmt.Fprintf(c.out, "Unknown command %q.\n\n", name)
		c.usage()
		return errUsage
	}

	switch route(cmd.access, c.api.Authenticated()) {
	case redirectLogin:
		fmt.Fprintln(c.out, "You are not signed in.")
		if err := c.login(ctx, nil); err != nil {
			return err
		}
	case redirectDashboard:
		fmt.Fprintln(c.out, "You are already signed in.")
		return c.dashboard(ctx, nil)
	}

	return cmd.run(c, ctx, args)
}

func (c *cli) usage() {
	fmt.Fprintln(c.out, "Usage: interview <command> [flags]")
	fmt.Fprintln(c.out)
	for _, cmd := range commands() {
		fmt.Fprintf(c.out, "  %-10s %s\n", cmd.name, cmd.summary)
	}
}

// prompt asks for one line of input. An empty answer returns fallback.
func (c *cli) prompt(label, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}

	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: no input for %s", model.ErrInvalidInput, strings.ToLower(label))
		}
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

// need returns value or prompts for it when empty.
func (c *cli) need(value, label string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}

	answer, err := c.prompt(label, "")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", apierror.Validation(fmt.Errorf("%w: %s is required", model.ErrInvalidInput, strings.ToLower(label)))
	}
	return answer, nil
}
