package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	first := Snapshot{
		Package:   "app",
		Timestamp: base,
		Nodes:     10,
		Public:    6,
		Private:   3,
		Magic:     1,
		MaxDepth:  2,
	}
	second := Snapshot{
		Package:   "app",
		Timestamp: base.Add(2 * time.Hour),
		Nodes:     14,
		Public:    8,
		Private:   5,
		Magic:     1,
		Aliases:   2,
		MaxDepth:  3,
	}

	if err := store.SaveSnapshot(first); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}
	if err := store.SaveSnapshot(second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	got, err := store.RecentSnapshots("app", 10)
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	// Newest first.
	if got[0].Nodes != 14 || got[1].Nodes != 10 {
		t.Fatalf("unexpected ordering: %+v", got)
	}
	if got[0].RunID == "" {
		t.Error("expected run ID to be filled in")
	}
	if got[0].Aliases != 2 || got[0].MaxDepth != 3 {
		t.Errorf("counts did not roundtrip: %+v", got[0])
	}
}

func TestStore_LatestTrend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	trend, err := store.LatestTrend("app")
	if err != nil {
		t.Fatalf("trend on empty store: %v", err)
	}
	if trend != nil {
		t.Fatal("expected nil trend with no history")
	}

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if err := store.SaveSnapshot(Snapshot{Package: "app", Timestamp: base, Nodes: 10, Public: 6}); err != nil {
		t.Fatal(err)
	}

	trend, err = store.LatestTrend("app")
	if err != nil {
		t.Fatalf("trend with one snapshot: %v", err)
	}
	if trend != nil {
		t.Fatal("expected nil trend with a single snapshot")
	}

	if err := store.SaveSnapshot(Snapshot{Package: "app", Timestamp: base.Add(time.Hour), Nodes: 14, Public: 5}); err != nil {
		t.Fatal(err)
	}

	trend, err = store.LatestTrend("app")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if trend == nil {
		t.Fatal("expected a trend with two snapshots")
	}
	if trend.NodeDelta != 4 || trend.PublicDelta != -1 {
		t.Errorf("deltas = %d, %d; want 4, -1", trend.NodeDelta, trend.PublicDelta)
	}
}

func TestStore_OpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening a directory as history store")
	}
	if _, err := Open("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestStore_IsolatesPackages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.SaveSnapshot(Snapshot{Package: "a", Nodes: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSnapshot(Snapshot{Package: "b", Nodes: 2}); err != nil {
		t.Fatal(err)
	}

	got, err := store.RecentSnapshots("a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Nodes != 1 {
		t.Errorf("package filter leaked: %+v", got)
	}
}
