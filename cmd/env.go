// ABOUTME: Wires config, logging, token store, API client, and session for commands
// ABOUTME: Shared by the terminal UI and every non-interactive subcommand

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/markalston/course-progress/internal/client"
	"github.com/markalston/course-progress/internal/config"
	"github.com/markalston/course-progress/internal/logger"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/session"
	"github.com/markalston/course-progress/internal/tokenstore"
)

var errNotSignedIn = errors.New("not signed in; run 'progress login' first")

// env holds the collaborators for one command run
type env struct {
	cfg     *config.Config
	store   *tokenstore.Store
	client  *client.Client
	session *session.Manager
	close   func()
}

func newEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	closeLog, err := logger.Init(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store := tokenstore.New(tokenstore.NewFileKV(cfg.ConfigDir))
	c := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithTokenSource(store),
	)
	sess := session.New(store, c, session.WithTokenLeeway(cfg.TokenLeeway))

	return &env{
		cfg:     cfg,
		store:   store,
		client:  c,
		session: sess,
		close: func() {
			sess.Close()
			closeLog()
		},
	}, nil
}

// requireUser restores the stored session and returns its user
func (e *env) requireUser(ctx context.Context) (*models.User, error) {
	e.session.Start(ctx)
	user := e.session.CurrentUser()
	if user == nil {
		return nil, errNotSignedIn
	}
	if err := e.session.EnsureFresh(ctx); err != nil {
		slog.Warn("Token refresh before request failed", "error", err)
		if e.session.CurrentUser() == nil {
			return nil, errNotSignedIn
		}
	}
	return user, nil
}

// call runs fn and, when the access token is rejected, refreshes the
// session once and tries again
func (e *env) call(ctx context.Context, fn func() error) error {
	err := fn()
	var authErr *client.AuthError
	if !errors.As(err, &authErr) || !authErr.Unauthorized() {
		return err
	}
	slog.Debug("Request unauthorized, refreshing session")
	if rerr := e.session.Refresh(ctx); rerr != nil {
		return fmt.Errorf("session expired, run 'progress login': %w", rerr)
	}
	return fn()
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// emitJSON writes v as JSON and reports on stderr when the write fails
func emitJSON(w io.Writer, v any) bool {
	if err := writeJSON(w, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return false
	}
	return true
}
