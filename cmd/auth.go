package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin validates the given credentials against the configured pair and
// persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session store not initialized", shared.ErrServiceUnavailable)
	}

	user, err := r.sessions.Login(cmd.String("email"), cmd.String("password"))
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return fmt.Errorf("%w: email or password does not match", shared.ErrInvalidCredentials)
		}
		return err
	}

	r.logger.Info("logged in", "email", user.Email)
	return r.writePlain("✓ Logged in as %s\n", user.Email)
}

// AuthLogout clears the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session store not initialized", shared.ErrServiceUnavailable)
	}

	if _, ok := r.sessions.Current(); !ok {
		return r.writePlainln("No active session")
	}

	if err := r.sessions.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami prints the logged-in user and the last login timestamp.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session store not initialized", shared.ErrServiceUnavailable)
	}

	user, ok := r.sessions.Current()
	if !ok {
		return r.writePlainln("Not logged in")
	}

	r.writePlain("Email: %s\n", user.Email)
	if last := r.sessions.LastLogin(); !last.IsZero() {
		r.writePlain("Last login: %s\n", last.Format("2006-01-02 15:04:05"))
	}

	return nil
}
