package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cesargomez89/netflix-insights/internal/domain"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	}
	return db, cleanup
}

func TestDB_Downloads(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	const url = "https://example.com/netflix_titles.csv"
	d, err := db.GetDownload(url)
	if err != nil {
		t.Fatalf("GetDownload failed: %v", err)
	}
	if d != nil {
		t.Errorf("Expected nil for an unknown url, got %+v", d)
	}

	if err := saveDownload(db, url, []byte("a,b\n1,2\n"), time.Hour); err != nil {
		t.Fatalf("saveDownload failed: %v", err)
	}
	d, err = db.GetDownload(url)
	if err != nil {
		t.Fatalf("GetDownload failed: %v", err)
	}
	if d == nil || string(d.Data) != "a,b\n1,2\n" {
		t.Fatalf("Expected cached bytes, got %+v", d)
	}
	if !d.Intact() {
		t.Error("Expected a fresh download to match its checksum")
	}
	if d.FetchedAt.IsZero() || !d.ExpiresAt.Valid {
		t.Errorf("Expected fetch and expiry times, got %+v", d)
	}

	// Overwrite
	if err := saveDownload(db, url, []byte("new"), 0); err != nil {
		t.Fatalf("saveDownload failed: %v", err)
	}
	d, _ = db.GetDownload(url)
	if d == nil || string(d.Data) != "new" || d.ExpiresAt.Valid {
		t.Errorf("Expected overwritten bytes without expiry, got %+v", d)
	}

	d.Data = []byte("tampered")
	if d.Intact() {
		t.Error("Expected tampered data to fail the checksum")
	}
}

func TestDB_DownloadExpiry(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := saveDownload(db, "https://example.com/short.csv", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("saveDownload failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	d, err := db.GetDownload("https://example.com/short.csv")
	if err != nil {
		t.Fatalf("GetDownload failed: %v", err)
	}
	if d != nil {
		t.Errorf("Expected expired download to be gone, got %q", d.Data)
	}

	for _, u := range []string{"https://example.com/a.csv", "https://example.com/b.csv"} {
		if err := saveDownload(db, u, []byte("y"), 0); err != nil {
			t.Fatalf("saveDownload failed: %v", err)
		}
	}
	n, err := db.ClearDownloads()
	if err != nil {
		t.Fatalf("ClearDownloads failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 downloads cleared, got %d", n)
	}
	if d, _ := db.GetDownload("https://example.com/a.csv"); d != nil {
		t.Errorf("Expected no downloads after clear, got %q", d.Data)
	}
}

func TestNewSQLiteDB_PrunesExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prune.db")
	db, err := NewSQLiteDB(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := saveDownload(db, "https://example.com/old.csv", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()
	time.Sleep(10 * time.Millisecond)

	db, err = NewSQLiteDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM downloads"); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected expired downloads to be pruned on open, got %d", n)
	}
}

func TestDB_Loads(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	loads, err := db.ListLoads(1)
	if err != nil {
		t.Fatalf("ListLoads failed: %v", err)
	}
	if len(loads) != 0 {
		t.Errorf("Expected no load yet, got %+v", loads)
	}

	first := &domain.Load{
		Source:    domain.LoadSourceLocal,
		Location:  "netflix_titles.csv",
		Rows:      8807,
		Malformed: 3,
		Available: true,
		Columns:   domain.StringSlice{"show_id", "title"},
		LoadedAt:  time.Now().Add(-time.Hour).UTC(),
	}
	if err := db.RecordLoad(first); err != nil {
		t.Fatalf("RecordLoad failed: %v", err)
	}
	if first.ID == "" {
		t.Error("Expected load ID to be assigned")
	}

	msg := "data unavailable"
	second := &domain.Load{Source: domain.LoadSourceNone, Error: &msg}
	if err := db.RecordLoad(second); err != nil {
		t.Fatalf("RecordLoad failed: %v", err)
	}

	loads, err = db.ListLoads(1)
	if err != nil || len(loads) != 1 {
		t.Fatalf("ListLoads failed: %v", err)
	}
	latest := loads[0]
	if latest.ID != second.ID {
		t.Errorf("Expected latest load %s, got %s", second.ID, latest.ID)
	}
	if latest.Available || latest.Error == nil || *latest.Error != msg {
		t.Errorf("Expected failed load with error, got %+v", latest)
	}

	loads, err = db.ListLoads(10)
	if err != nil {
		t.Fatalf("ListLoads failed: %v", err)
	}
	if len(loads) != 2 {
		t.Fatalf("Expected 2 loads, got %d", len(loads))
	}
	if loads[1].Rows != 8807 || len(loads[1].Columns) != 2 {
		t.Errorf("Expected first load round-trip, got %+v", loads[1])
	}
}

func TestDB_RecordRemoteLoad(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	load := &domain.Load{Source: domain.LoadSourceRemote, Location: "https://example.com/t.csv", Available: true, Rows: 1}
	err := db.RecordRemoteLoad(context.Background(), "https://example.com/t.csv", []byte("show_id\ns1\n"), time.Hour, load)
	if err != nil {
		t.Fatalf("RecordRemoteLoad failed: %v", err)
	}

	d, _ := db.GetDownload("https://example.com/t.csv")
	if d == nil || string(d.Data) != "show_id\ns1\n" {
		t.Errorf("Expected cached dataset, got %+v", d)
	}
	loads, _ := db.ListLoads(1)
	if len(loads) != 1 || loads[0].Source != domain.LoadSourceRemote {
		t.Errorf("Expected remote load recorded, got %+v", loads)
	}
}
