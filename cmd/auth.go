package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// AuthLogin resolves a usable token, running the browser consent flow when the
// cache cannot satisfy the request.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.ensureAuth()
	if err != nil {
		return err
	}

	if cmd.Bool("force") {
		if err := manager.Reset(); err != nil {
			return err
		}
		r.logger.Info("discarded cached token")
	}

	token, err := manager.Obtain(ctx)
	if err != nil {
		return err
	}

	status := manager.Status()

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token cached at %s\n", status.CachePath)
	if !token.Expiry.IsZero() {
		r.writePlain("  Expires: %s\n", token.Expiry.Format("2006-01-02 15:04:05"))
	}
	r.writePlain("\nYou can now use: ytls collect\n")

	return nil
}

// AuthStatus inspects the token cache without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	manager, err := r.ensureAuth()
	if err != nil {
		return err
	}

	status := manager.Status()

	if useJSON {
		return r.writeJSON(status, pretty)
	}

	if status.Authenticated {
		r.writePlain("✓ Authenticated\n")
		r.writePlain("  Expires: %s\n", status.Expiry.Format("2006-01-02 15:04:05"))
	} else {
		r.writePlain("✗ Not authenticated\n")
	}
	if status.HasRefreshToken {
		r.writePlain("  Refresh token: present\n")
	}
	r.writePlain("  Cache: %s\n", status.CachePath)

	return nil
}

// AuthReset deletes the cached token, forcing the next command through the
// full consent flow.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.ensureAuth()
	if err != nil {
		return err
	}

	if err := manager.Reset(); err != nil {
		return err
	}

	status := manager.Status()
	r.writePlain("✓ Token cache cleared (%s)\n", status.CachePath)

	return nil
}
