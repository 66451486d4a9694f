package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
	_ "github.com/mattn/go-sqlite3"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func playlistFixture(id string) models.Playlist {
	return models.Playlist{
		ID:        id,
		ETag:      "etag-" + id,
		ChannelID: "UC123",
		Title:     "Playlist " + id,
		ItemCount: 2,
	}
}

func TestNextSequence(t *testing.T) {
	db := testDB(t)

	first, err := NextSequence(db, "playlists")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := NextSequence(db, "playlists")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if second != first+1 {
		t.Errorf("expected monotonic sequence, got %d then %d", first, second)
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Create and Get round trip", func(t *testing.T) {
		repo := NewPlaylistRepository(testDB(t))

		row := models.NewPersistedPlaylist(playlistFixture("PL1"))
		if err := repo.Create(row); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if row.ID() == "" {
			t.Error("expected generated internal ID")
		}

		got, err := repo.Get(row.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.PlaylistID() != "PL1" || got.Title() != "Playlist PL1" {
			t.Errorf("unexpected row: %+v", got.Playlist())
		}
	})

	t.Run("GetByPlaylistID", func(t *testing.T) {
		repo := NewPlaylistRepository(testDB(t))

		if err := repo.Create(models.NewPersistedPlaylist(playlistFixture("PL1"))); err != nil {
			t.Fatal(err)
		}

		got, err := repo.GetByPlaylistID("PL1")
		if err != nil {
			t.Fatalf("GetByPlaylistID failed: %v", err)
		}
		if got.PlaylistID() != "PL1" {
			t.Errorf("expected PL1, got %s", got.PlaylistID())
		}

		if _, err := repo.GetByPlaylistID("missing"); err == nil {
			t.Error("expected error for uncached playlist")
		}
	})

	t.Run("Upsert keeps a single row per remote playlist", func(t *testing.T) {
		repo := NewPlaylistRepository(testDB(t))

		if err := repo.Upsert(models.NewPersistedPlaylist(playlistFixture("PL1"))); err != nil {
			t.Fatalf("first Upsert failed: %v", err)
		}

		updated := playlistFixture("PL1")
		updated.Title = "Renamed"
		if err := repo.Upsert(models.NewPersistedPlaylist(updated)); err != nil {
			t.Fatalf("second Upsert failed: %v", err)
		}

		rows, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0].Title() != "Renamed" {
			t.Errorf("expected refreshed title, got %s", rows[0].Title())
		}
	})

	t.Run("List orders by sequence", func(t *testing.T) {
		repo := NewPlaylistRepository(testDB(t))

		for _, id := range []string{"PL1", "PL2", "PL3"} {
			if err := repo.Create(models.NewPersistedPlaylist(playlistFixture(id))); err != nil {
				t.Fatal(err)
			}
		}

		rows, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		for i, want := range []string{"PL1", "PL2", "PL3"} {
			if rows[i].PlaylistID() != want {
				t.Errorf("row %d: expected %s, got %s", i, want, rows[i].PlaylistID())
			}
		}
	})

	t.Run("Delete removes the row", func(t *testing.T) {
		repo := NewPlaylistRepository(testDB(t))

		row := models.NewPersistedPlaylist(playlistFixture("PL1"))
		if err := repo.Create(row); err != nil {
			t.Fatal(err)
		}
		if err := repo.Delete(row.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get(row.ID()); err == nil {
			t.Error("expected error after delete")
		}
		if err := repo.Delete(row.ID()); err == nil {
			t.Error("expected error deleting twice")
		}
	})
}

func TestItemRepository(t *testing.T) {
	itemFixture := func(id string, position int) models.PlaylistItem {
		return models.PlaylistItem{
			ID:         id,
			PlaylistID: "PL1",
			VideoID:    "vid-" + id,
			Title:      "Video " + id,
			Position:   position,
		}
	}

	t.Run("Create and ListByPlaylist in position order", func(t *testing.T) {
		repo := NewItemRepository(testDB(t))

		// Inserted out of position order on purpose
		for _, item := range []models.PlaylistItem{itemFixture("i2", 2), itemFixture("i0", 0), itemFixture("i1", 1)} {
			if err := repo.Create(models.NewPersistedItem(item)); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		rows, err := repo.ListByPlaylist("PL1")
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		for i, row := range rows {
			if row.Position() != i {
				t.Errorf("expected position %d, got %d", i, row.Position())
			}
		}
	})

	t.Run("reload preserves creation time", func(t *testing.T) {
		repo := NewItemRepository(testDB(t))

		row := models.NewPersistedItem(itemFixture("i0", 0))
		if err := repo.Create(row); err != nil {
			t.Fatal(err)
		}

		got, err := repo.Get(row.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.CreatedAt().Equal(row.CreatedAt()) {
			t.Errorf("expected created_at %v, got %v", row.CreatedAt(), got.CreatedAt())
		}
		if !got.UpdatedAt().Equal(row.UpdatedAt()) {
			t.Errorf("expected updated_at %v, got %v", row.UpdatedAt(), got.UpdatedAt())
		}
	})

	t.Run("DeleteByPlaylist clears all items", func(t *testing.T) {
		repo := NewItemRepository(testDB(t))

		for _, item := range []models.PlaylistItem{itemFixture("i0", 0), itemFixture("i1", 1)} {
			if err := repo.Create(models.NewPersistedItem(item)); err != nil {
				t.Fatal(err)
			}
		}

		if err := repo.DeleteByPlaylist("PL1"); err != nil {
			t.Fatalf("DeleteByPlaylist failed: %v", err)
		}

		rows, err := repo.ListByPlaylist("PL1")
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 0 {
			t.Errorf("expected no rows, got %d", len(rows))
		}
	})
}

func TestVideoRepository(t *testing.T) {
	videoFixture := func(id string) models.Video {
		return models.Video{
			ID:           id,
			Title:        "Video " + id,
			ChannelID:    "UC123",
			ChannelTitle: "A Channel",
		}
	}

	t.Run("Create and GetByVideoID round trip", func(t *testing.T) {
		repo := NewVideoRepository(testDB(t))

		row := models.NewPersistedVideo(videoFixture("v1"))
		if err := repo.Create(row); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByVideoID("v1")
		if err != nil {
			t.Fatalf("GetByVideoID failed: %v", err)
		}
		if got.VideoID() != "v1" || got.ChannelTitle() != "A Channel" {
			t.Errorf("unexpected row: %+v", got.Video())
		}
		if !got.CreatedAt().Equal(row.CreatedAt()) {
			t.Errorf("expected created_at %v, got %v", row.CreatedAt(), got.CreatedAt())
		}
	})

	t.Run("Exists", func(t *testing.T) {
		repo := NewVideoRepository(testDB(t))

		if err := repo.Create(models.NewPersistedVideo(videoFixture("v1"))); err != nil {
			t.Fatal(err)
		}

		exists, err := repo.Exists("v1")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if !exists {
			t.Error("expected v1 to exist")
		}

		exists, err = repo.Exists("missing")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Error("expected missing to be absent")
		}
	})

	t.Run("duplicate video IDs are rejected", func(t *testing.T) {
		repo := NewVideoRepository(testDB(t))

		if err := repo.Create(models.NewPersistedVideo(videoFixture("v1"))); err != nil {
			t.Fatal(err)
		}
		if err := repo.Create(models.NewPersistedVideo(videoFixture("v1"))); err == nil {
			t.Error("expected unique constraint violation")
		}
	})

	t.Run("List orders by sequence", func(t *testing.T) {
		repo := NewVideoRepository(testDB(t))

		for _, id := range []string{"v1", "v2", "v3"} {
			if err := repo.Create(models.NewPersistedVideo(videoFixture(id))); err != nil {
				t.Fatal(err)
			}
		}

		rows, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 3 || rows[0].VideoID() != "v1" || rows[2].VideoID() != "v3" {
			t.Errorf("unexpected rows: %d", len(rows))
		}
	})
}

func TestCache(t *testing.T) {
	report := &models.Report{
		Playlists: []models.CollectedPlaylist{
			{
				Playlist: playlistFixture("PL1"),
				Items: []models.PlaylistItem{
					{ID: "i0", PlaylistID: "PL1", VideoID: "v0", Title: "First", Position: 0},
					{ID: "i1", PlaylistID: "PL1", VideoID: "v1", Title: "Second", Position: 1},
				},
			},
			{
				Playlist: playlistFixture("PL2"),
				Items:    []models.PlaylistItem{},
			},
		},
	}

	t.Run("SaveReport and LoadReport round trip", func(t *testing.T) {
		cache := NewCache(testDB(t))

		if err := cache.SaveReport(report); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}

		loaded, err := cache.LoadReport()
		if err != nil {
			t.Fatalf("LoadReport failed: %v", err)
		}

		if len(loaded.Playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(loaded.Playlists))
		}
		if loaded.Playlists[0].Playlist.ID != "PL1" {
			t.Errorf("expected PL1 first, got %s", loaded.Playlists[0].Playlist.ID)
		}
		if len(loaded.Playlists[0].Items) != 2 || loaded.Playlists[0].Items[1].Title != "Second" {
			t.Errorf("unexpected items: %+v", loaded.Playlists[0].Items)
		}
	})

	t.Run("HasVideo and SaveVideo", func(t *testing.T) {
		cache := NewCache(testDB(t))

		known, err := cache.HasVideo("v1")
		if err != nil {
			t.Fatalf("HasVideo failed: %v", err)
		}
		if known {
			t.Error("expected v1 unknown before save")
		}

		if err := cache.SaveVideo(models.Video{ID: "v1", Title: "First"}); err != nil {
			t.Fatalf("SaveVideo failed: %v", err)
		}

		known, err = cache.HasVideo("v1")
		if err != nil {
			t.Fatalf("HasVideo failed: %v", err)
		}
		if !known {
			t.Error("expected v1 known after save")
		}
	})

	t.Run("re-saving replaces cached items", func(t *testing.T) {
		cache := NewCache(testDB(t))

		if err := cache.SaveReport(report); err != nil {
			t.Fatal(err)
		}

		trimmed := models.CollectedPlaylist{
			Playlist: playlistFixture("PL1"),
			Items: []models.PlaylistItem{
				{ID: "i0", PlaylistID: "PL1", VideoID: "v0", Title: "First", Position: 0},
			},
		}
		if err := cache.SavePlaylist(trimmed); err != nil {
			t.Fatal(err)
		}

		loaded, err := cache.LoadReport()
		if err != nil {
			t.Fatal(err)
		}
		if len(loaded.Playlists[0].Items) != 1 {
			t.Errorf("expected stale item removed, got %d items", len(loaded.Playlists[0].Items))
		}
	})
}
