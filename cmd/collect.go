package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytls/internal/formatter"
	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
	"github.com/desertthunder/ytls/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Collect runs a full collection pass and prints the report.
//
// Playlists are printed as each one finishes collecting; --json buffers the
// whole pass and emits the report as a single document instead.
func (r *Runner) Collect(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	opts := tasks.CollectOpts{
		KeepGoing: cmd.Bool("keep-going"),
		Details:   cmd.Bool("details"),
	}

	engine, err := r.ensureEngine(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("collecting playlists", "keep_going", opts.KeepGoing, "details", opts.Details)

	runPass := func() (*models.Report, error) {
		progress, stop := r.logProgress()
		defer stop()

		if useJSON {
			return engine.Collect(ctx, progress, opts)
		}

		return engine.Stream(ctx, progress, opts, func(collected models.CollectedPlaylist) error {
			return r.writePlain("%s", formatter.FormatPlaylist(collected))
		})
	}

	report, err := runPass()
	if err != nil {
		reauthed, authErr := r.handleAuthExpired(ctx, err)
		if !reauthed {
			return err
		}
		if authErr != nil {
			return authErr
		}
		engine = r.engine
		if report, err = runPass(); err != nil {
			return err
		}
	}

	if save {
		if err := r.saveReport(report); err != nil {
			return err
		}
		r.logger.Info("report cached", "database", r.config.Database.Path)
	}

	if useJSON {
		return r.writeJSON(report, pretty)
	}

	if len(report.Skipped) > 0 {
		r.writePlain("\nSkipped %d playlists:\n", len(report.Skipped))
		for _, skipped := range report.Skipped {
			r.writePlain("  ✗ %s: %s\n", skipped.Playlist.Title, skipped.Reason)
		}
	}

	r.writePlain("\n✓ Collected %d playlists (%d items)\n", len(report.Playlists), report.ItemTotal())
	if save {
		r.writePlain("✓ Report cached in %s\n", r.config.Database.Path)
	}

	return nil
}

// Export collects the library and writes every playlist to disk.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	collectOpts := tasks.CollectOpts{
		KeepGoing: cmd.Bool("keep-going"),
		Details:   cmd.Bool("details"),
	}
	exportOpts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
	}

	engine, err := r.ensureEngine(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("collecting playlists for export", "format", exportOpts.Format)

	progress, stop := r.logProgress()
	report, err := engine.Collect(ctx, progress, collectOpts)
	if err != nil {
		stop()
		reauthed, authErr := r.handleAuthExpired(ctx, err)
		if !reauthed {
			return err
		}
		if authErr != nil {
			return authErr
		}
		engine = r.engine
		progress, stop = r.logProgress()
		if report, err = engine.Collect(ctx, progress, collectOpts); err != nil {
			stop()
			return err
		}
	}
	stop()

	r.writePlain("Exporting %d playlists...\n", len(report.Playlists))

	progress, stop = r.logProgress()
	defer stop()
	result, err := engine.ExportAll(ctx, progress, report, exportOpts)
	if err != nil {
		return err
	}

	r.writePlain("\n✓ Exported %d/%d playlists to %s\n", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	r.writePlain("✓ Manifest written to %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\n%d exports failed:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}

	return nil
}

// handleAuthExpired checks if an error is a token expiration error and triggers reauthorization if needed.
//
// The cached token is discarded and the credential manager runs its usual
// resolution, ending in the consent flow. The library is rebuilt around the
// new client so the retried operation carries fresh credentials.
func (r *Runner) handleAuthExpired(ctx context.Context, err error) (bool, error) {
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, shared.ErrTokenExpired) {
		return false, err
	}

	if r.auth == nil {
		return false, err
	}

	r.writePlainln("⚠ Authentication token expired. Starting reauthorization...")

	if resetErr := r.auth.Reset(); resetErr != nil {
		return true, fmt.Errorf("failed to discard cached token: %w", resetErr)
	}

	client, clientErr := r.auth.Client(ctx)
	if clientErr != nil {
		return true, fmt.Errorf("reauthorization failed: %w", clientErr)
	}

	r.buildLibrary(client)
	r.writePlainln("✓ Successfully reauthenticated. Retrying operation...")

	return true, nil
}

// logProgress drains engine progress updates into the logger.
//
// The returned stop function closes the channel and waits for the drain
// goroutine to finish.
func (r *Runner) logProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
	}()

	return progress, func() {
		close(progress)
		<-done
	}
}
