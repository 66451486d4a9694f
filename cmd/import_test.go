package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytls/internal/services"
	"github.com/desertthunder/ytls/internal/shared"
	th "github.com/desertthunder/ytls/internal/testing"
)

func TestImportCommand(t *testing.T) {
	writeLinksFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "links.md")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write links file: %v", err)
		}
		return path
	}

	importLibrary := func() *th.MockLibrary {
		library := libraryFixture()
		library.VideoDetailsFn = func(ctx context.Context, videoIDs []string) (map[string]services.VideoDetail, error) {
			details := make(map[string]services.VideoDetail, len(videoIDs))
			for _, id := range videoIDs {
				details[id] = services.VideoDetail{ID: id, Title: "Title " + id}
			}
			return details, nil
		}
		return library
	}

	t.Run("records linked videos", func(t *testing.T) {
		path := writeLinksFile(t,
			"[One](https://www.youtube.com/watch?v=video000001)\nhttps://www.youtube.com/watch?v=video000002\n")
		runner, output := testRunner(t, importLibrary())

		if err := runCommand(t, runner, "import", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Added 2 new videos:") {
			t.Errorf("expected summary line, got:\n%s", result)
		}
		if !strings.Contains(result, "- Title video000001 (ID: video000001)") {
			t.Errorf("expected recorded video line, got:\n%s", result)
		}
	})

	t.Run("second import skips recorded videos", func(t *testing.T) {
		path := writeLinksFile(t, "https://www.youtube.com/watch?v=video000001\n")
		runner, output := testRunner(t, importLibrary())

		if err := runCommand(t, runner, "import", path); err != nil {
			t.Fatalf("first import failed: %v", err)
		}

		output.Reset()
		if err := runCommand(t, runner, "import", path); err != nil {
			t.Fatalf("second import failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Added 0 new videos:") {
			t.Errorf("expected nothing added, got:\n%s", result)
		}
		if !strings.Contains(result, "1 of 1 found videos were already recorded.") {
			t.Errorf("expected known summary, got:\n%s", result)
		}
	})

	t.Run("requires at least one file", func(t *testing.T) {
		runner, _ := testRunner(t, importLibrary())

		err := runCommand(t, runner, "import")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
