package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytls/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the account's playlists with optional limit.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	library, err := r.ensureLibrary(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("listing playlists with limit %v", limit)

	playlists, err := library.Playlists(ctx)
	if err != nil {
		if reauthed, authErr := r.handleAuthExpired(ctx, err); reauthed {
			if authErr != nil {
				return authErr
			}
			if playlists, err = r.library.Playlists(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if save {
		saveFile := "youtube_playlists.json"
		data, err := shared.MarshalJSON(playlists, true)
		if err != nil {
			return fmt.Errorf("failed to marshal playlists: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save playlists", "error", err)
		} else {
			r.logger.Info("playlists saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Title)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Items: %d\n", p.ItemCount)
		r.writePlain("\n")
	}

	return nil
}

// Items lists the videos of a single playlist in position order.
func (r *Runner) Items(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}

	library, err := r.ensureLibrary(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("listing items of playlist %v", playlistID)

	items, err := library.PlaylistItems(ctx, playlistID)
	if err != nil {
		if reauthed, authErr := r.handleAuthExpired(ctx, err); reauthed {
			if authErr != nil {
				return authErr
			}
			if items, err = r.library.PlaylistItems(ctx, playlistID); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if useJSON {
		return r.writeJSON(items, pretty)
	}

	r.writePlain("Found %d items in %s:\n\n", len(items), playlistID)
	for _, item := range items {
		r.writePlain("%d. %s\n", item.Position+1, item.Title)
		if item.Channel != "" {
			r.writePlain("   Channel: %s\n", item.Channel)
		}
		r.writePlain("   Video: %s\n", item.VideoID)
	}

	return nil
}
