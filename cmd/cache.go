package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytls/internal/formatter"
	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/repositories"
	"github.com/desertthunder/ytls/internal/shared"
	"github.com/urfave/cli/v3"
)

// openCache opens the configured database and wraps it in a report cache.
//
// Migrations are idempotent, so they run on every open; a fresh database
// works without a prior setup command.
func (r *Runner) openCache() (*repositories.Cache, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewCache(db), db, nil
}

// saveReport persists a collected report into the local cache, reporting
// per-playlist progress through the engine.
func (r *Runner) saveReport(report *models.Report) error {
	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	if r.engine == nil {
		return cache.SaveReport(report)
	}

	progress, stop := r.logProgress()
	defer stop()

	return r.engine.SaveReport(progress, report, cache)
}

// CacheList lists cached playlists with their item counts.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := cache.LoadReport()
	if err != nil {
		return fmt.Errorf("failed to load cached report: %w", err)
	}

	if useJSON {
		playlists := make([]models.Playlist, 0, len(report.Playlists))
		for _, collected := range report.Playlists {
			playlists = append(playlists, collected.Playlist)
		}
		return r.writeJSON(playlists, pretty)
	}

	if len(report.Playlists) == 0 {
		r.writePlain("No cached playlists. Run 'ytls collect --save' first.\n")
		return nil
	}

	r.writePlain("Cached %d playlists:\n\n", len(report.Playlists))
	for i, collected := range report.Playlists {
		r.writePlain("%d. %s (%d items)\n", i+1, collected.Playlist.Title, len(collected.Items))
		r.writePlain("   ID: %s\n", collected.Playlist.ID)
	}

	return nil
}

// CacheReport prints the full cached report in the collect output format.
func (r *Runner) CacheReport(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := cache.LoadReport()
	if err != nil {
		return fmt.Errorf("failed to load cached report: %w", err)
	}

	if useJSON {
		return r.writeJSON(report, pretty)
	}

	if len(report.Playlists) == 0 {
		r.writePlain("No cached playlists. Run 'ytls collect --save' first.\n")
		return nil
	}

	return r.writePlain("%s", formatter.FormatReport(report))
}
