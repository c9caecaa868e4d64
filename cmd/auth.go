package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/soundx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSignUp registers an email and stores the resulting session.
func (r *Runner) AuthSignUp(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrMissingArgument)
	}

	app, err := r.App()
	if err != nil {
		return err
	}

	session, err := app.Sessions.SignUp(ctx, email)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed up as %s\n", session.Email())
}

// AuthSignIn signs in and stores the session for later commands.
func (r *Runner) AuthSignIn(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrMissingArgument)
	}

	app, err := r.App()
	if err != nil {
		return err
	}

	session, err := app.Sessions.SignIn(ctx, email, cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s\n", session.Email())
}

// AuthSignOut forgets the stored session. Signing out while signed out is not an error.
func (r *Runner) AuthSignOut(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}

	if err := app.SignOut(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus validates the stored credential with the backend's session check.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}

	r.logger.Info("checking session")
	session, ok := app.Sessions.Restore(ctx)
	if !ok {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Email: %s\n", session.Email())
	return r.writePlain("User ID: %s\n", session.Identity.ID)
}
