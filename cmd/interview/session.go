package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go-interview-client/internal/model"
	"go-interview-client/internal/router"
	"go-interview-client/internal/session"
	"go-interview-client/internal/websocket"
)

func (c *cli) runSession(ctx context.Context, interviewID int64) error {
	stopMirror, err := c.startMirror(ctx)
	if err != nil {
		return err
	}
	defer stopMirror()

	out := &syncWriter{w: c.out}
	alerts := newTimeAlerts(out)

	ctrl, err := session.New(session.Options{
		API:      c.api,
		Speech:   c.speech,
		Bus:      c.bus,
		Logger:   c.log.With("interview_id", interviewID),
		Language: c.cfg.CodeLanguage,
		OnRedirect: func() {
			fmt.Fprintln(out, "This interview is no longer active. Back to the dashboard.")
		},
		OnTick: alerts.observe,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.Load(ctx, interviewID); err != nil {
		if errors.Is(err, model.ErrInterviewInactive) {
			return c.dashboard(ctx, nil)
		}
		return err
	}

	r := &repl{ctrl: ctrl, in: c.in, out: out}
	return r.run(ctx)
}

// startMirror serves session events and client metrics on MirrorAddr for
// the lifetime of one session. It is a no-op when no address is set.
func (c *cli) startMirror(ctx context.Context) (func(), error) {
	if c.cfg.MirrorAddr == "" {
		return func() {}, nil
	}

	listener, err := net.Listen("tcp", c.cfg.MirrorAddr)
	if err != nil {
		return nil, fmt.Errorf("start session mirror: %w", err)
	}

	hubCtx, cancel := context.WithCancel(ctx)
	hub := websocket.NewHub(c.bus)
	go hub.Run(hubCtx)

	srv := &http.Server{
		Handler:           router.NewMirror(hub, c.registry, nil),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error("session mirror stopped", "error", err)
		}
	}()

	c.log.Info("session mirror listening", "addr", listener.Addr().String())
	fmt.Fprintf(c.out, "Mirroring this session on ws://%s/ws\n", listener.Addr())

	return func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.log.Warn("session mirror shutdown", "error", err)
		}
		cancel()
	}, nil
}
