package shader

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if got := w.Drain(); len(got) != 0 {
		t.Fatalf("initial drain = %v", got)
	}

	file := filepath.Join(dir, "pcss_shadow_map.frag")
	if err := os.WriteFile(file, []byte("// v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var seen []string
	for time.Now().Before(deadline) {
		seen = append(seen, w.Drain()...)
		if slices.Contains(seen, "pcss_shadow_map.frag") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("no change reported, saw %v", seen)
}

func TestDrainDeduplicates(t *testing.T) {
	w := &Watcher{changes: make(chan string, changeBuffer)}
	for _, name := range []string{"b.frag", "a.frag", "b.frag"} {
		w.changes <- name
	}
	got := w.Drain()
	if !slices.Equal(got, []string{"a.frag", "b.frag"}) {
		t.Errorf("Drain = %v", got)
	}
}

func TestWatchMissingDir(t *testing.T) {
	if _, err := Watch(filepath.Join(t.TempDir(), "missing"), zap.NewNop()); err == nil {
		t.Error("expected error")
	}
}
