package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalCatalog = `
tools:
  asset_db:
    description: Internal asset database
    capabilities:
      asset_query:
        patterns:
          - name: sql_scan
            time_estimate_ms: 100
            cost_estimate: 0
`

const updatedCatalog = `
tools:
  asset_db:
    description: Internal asset database
    capabilities:
      asset_query:
        patterns:
          - name: sql_scan
            time_estimate_ms: 100
            cost_estimate: 0
  web_search:
    description: Searches the public web
    capabilities:
      asset_query:
        patterns:
          - name: quick_lookup
            time_estimate_ms: 120
            cost_estimate: 0.01
`

func writeCatalog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStore_LoadAndServe(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, minimalCatalog)

	store := NewStore(NewLoader(), path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := store.ToolNames(); len(got) != 1 || got[0] != "asset_db" {
		t.Errorf("ToolNames() = %v", got)
	}
	if _, ok := store.Tool("asset_db"); !ok {
		t.Error("Tool(asset_db) should exist")
	}
	if len(store.AllTools()) != 1 {
		t.Errorf("AllTools() has %d entries", len(store.AllTools()))
	}
}

func TestStore_ReloadPicksUpChanges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, minimalCatalog)

	store := NewStore(NewLoader(), path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	writeCatalog(t, path, updatedCatalog)
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if len(store.AllTools()) != 2 {
		t.Errorf("got %d tools after reload, want 2", len(store.AllTools()))
	}
}

func TestStore_ReloadKeepsSnapshotOnFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, minimalCatalog)

	store := NewStore(NewLoader(), path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	writeCatalog(t, path, "tools: {broken")
	if err := store.Reload(); err == nil {
		t.Fatal("broken catalog should fail to reload")
	}
	if _, ok := store.Tool("asset_db"); !ok {
		t.Error("previous snapshot must survive a failed reload")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, minimalCatalog)

	store := NewStore(NewLoader(), path)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewWatcher(store).Watch(ctx) }()

	// Give the watcher time to register before the write.
	time.Sleep(100 * time.Millisecond)
	writeCatalog(t, path, updatedCatalog)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(store.AllTools()) == 2 {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not reload the catalog in time")
}
