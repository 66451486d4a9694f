package tasks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
)

// Watch URLs appear both bare and inside Markdown links.
var (
	watchLinkPattern    = regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`)
	markdownLinkPattern = regexp.MustCompile(`\[.*?\]\(https?://(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]+)\)`)
)

// VideoRecorder persists standalone videos found by a file import.
// Implemented by repositories.Cache.
type VideoRecorder interface {
	HasVideo(videoID string) (bool, error)
	SaveVideo(video models.Video) error
}

// ExtractVideoIDs pulls YouTube video IDs out of free text, matching bare
// watch URLs and Markdown links. IDs are deduplicated in first-seen order.
func ExtractVideoIDs(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string

	collect := func(matches [][]string) {
		for _, match := range matches {
			id := match[1]
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		collect(watchLinkPattern.FindAllStringSubmatch(line, -1))
		collect(markdownLinkPattern.FindAllStringSubmatch(line, -1))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return ids, nil
}

// ImportFiles scans the given files for YouTube video links and records the
// videos that are not already known, resolving their metadata in one batched
// lookup.
func (e *PlaylistEngine) ImportFiles(ctx context.Context, progress chan<- ProgressUpdate, paths []string, recorder VideoRecorder) (*models.ImportResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files to import", shared.ErrInvalidInput)
	}
	if recorder == nil {
		return nil, fmt.Errorf("%w: nil recorder", shared.ErrInvalidInput)
	}

	result := &models.ImportResult{}
	seen := make(map[string]bool)
	var pending []string

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.sendProgress(progress, importFileUpdate(i+1, len(paths), path))

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		ids, err := ExtractVideoIDs(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		result.FilesRead++

		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			result.Found++

			known, err := recorder.HasVideo(id)
			if err != nil {
				return nil, err
			}
			if known {
				result.Known++
				continue
			}
			pending = append(pending, id)
		}
	}

	if len(pending) == 0 {
		e.sendProgress(progress, importedVideosUpdate(0))
		return result, nil
	}

	e.sendProgress(progress, fetchDetailsUpdate(len(pending)))

	details, err := e.library.VideoDetails(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFetchFailed, err)
	}

	for _, id := range pending {
		detail, ok := details[id]
		if !ok {
			// Deleted or private videos come back without a resource.
			continue
		}

		video := models.Video{
			ID:           id,
			ETag:         detail.ETag,
			Title:        detail.Title,
			Description:  detail.Description,
			ChannelID:    detail.ChannelID,
			ChannelTitle: detail.ChannelTitle,
			PublishedAt:  detail.PublishedAt,
		}
		if err := recorder.SaveVideo(video); err != nil {
			return nil, err
		}
		result.Added = append(result.Added, video)
	}

	e.sendProgress(progress, importedVideosUpdate(len(result.Added)))

	return result, nil
}
