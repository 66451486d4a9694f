package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
	"github.com/urfave/cli/v3"
)

// Import scans text or Markdown files for YouTube video links and records
// the videos that are not already in the local database.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file to import", shared.ErrMissingArgument)
	}

	engine, err := r.ensureEngine(ctx)
	if err != nil {
		return err
	}

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("importing video links", "files", len(paths))

	runPass := func() (*models.ImportResult, error) {
		progress, stop := r.logProgress()
		defer stop()

		return engine.ImportFiles(ctx, progress, paths, cache)
	}

	result, err := runPass()
	if err != nil {
		reauthed, authErr := r.handleAuthExpired(ctx, err)
		if !reauthed {
			return err
		}
		if authErr != nil {
			return authErr
		}
		engine = r.engine
		if result, err = runPass(); err != nil {
			return err
		}
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("Added %d new videos:\n", len(result.Added))
	for _, video := range result.Added {
		r.writePlain("  - %s (ID: %s)\n", video.Title, video.ID)
	}
	if result.Known > 0 {
		r.writePlain("\n%d of %d found videos were already recorded.\n", result.Known, result.Found)
	}

	return nil
}
