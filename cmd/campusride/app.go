package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/semanticallynull/campusride/account"
	"github.com/semanticallynull/campusride/internal/backend"
	"github.com/semanticallynull/campusride/internal/notify"
	"github.com/semanticallynull/campusride/internal/o11y"
	"github.com/semanticallynull/campusride/internal/session"
)

// app is what every command runs against.
type app struct {
	ctx      context.Context
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	session  *session.Session
	store    session.Store
	client   *backend.Client
	notifier notify.Notifier
	registry *prometheus.Registry
}

func newApp(ctx context.Context, g globals) (*app, func(), error) {
	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	obs, shutdown, err := o11y.Setup(ctx, o11y.Options{
		ServiceName:  "campusride",
		Level:        level,
		Output:       os.Stderr,
		OTLPEndpoint: g.OTLPEndpoint,
	})
	if err != nil {
		return nil, func() {}, err
	}

	path := g.SessionFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			shutdown()
			return nil, func() {}, fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "campusride", "session.json")
	}
	store := session.NewFileStore(path)
	sess, err := store.Load()
	if err != nil {
		shutdown()
		return nil, func() {}, err
	}
	if sess.Authenticated() && sess.Expired(time.Now()) {
		obs.Logger.Warn("saved session has expired, logging out")
		sess.Clear()
		if err := store.Clear(); err != nil {
			obs.Logger.Warn("failed to clear expired session", "error", err)
		}
	}

	a := &app{
		ctx:      ctx,
		out:      os.Stdout,
		errOut:   os.Stderr,
		logger:   obs.Logger,
		session:  sess,
		store:    store,
		notifier: notify.NewConsole(os.Stdout),
		registry: obs.Registry,
	}
	a.client = backend.New(g.APIURL, sess,
		backend.WithTimeout(g.Timeout),
		backend.WithLogger(obs.Logger),
		backend.WithMetrics(obs.Registry),
	)

	cleanup := func() {
		if g.MetricsFile != "" {
			if err := prometheus.WriteToTextfile(g.MetricsFile, obs.Registry); err != nil {
				obs.Logger.Warn("failed to write metrics file", "path", g.MetricsFile, "error", err)
			}
		}
		shutdown()
	}
	return a, cleanup, nil
}

func (a *app) accounts() *account.Service {
	return account.NewService(a.client, a.session, a.store, a.notifier, a.logger)
}

// requireLogin fails commands that need a token before any request is made.
func (a *app) requireLogin() error {
	if !a.session.Authenticated() {
		a.notifier.Error("You are not logged in. Run `campusride login` first.")
		return reported(session.ErrNotAuthenticated)
	}
	return nil
}

// loading runs fn with a spinner on stderr.
func (a *app) loading(msg string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.errOut))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()
	return fn()
}
