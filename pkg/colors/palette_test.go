package colors

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestPalette(t *testing.T) (*Palette, *time.Time) {
	t.Helper()
	p, err := NewPalette(filepath.Join(t.TempDir(), paletteFile))
	if err != nil {
		t.Fatalf("NewPalette failed: %v", err)
	}
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	return p, &clock
}

func TestColorIDStable(t *testing.T) {
	p, _ := newTestPalette(t)

	if got := p.ColorID(""); got != NoPlatformColor {
		t.Errorf("Expected no-platform color, got %s", got)
	}
	first := p.ColorID("Twitter")
	if first != "1" {
		t.Errorf("Expected first color 1, got %s", first)
	}
	if got := p.ColorID("twitter "); got != first {
		t.Errorf("Expected case-insensitive reuse of %s, got %s", first, got)
	}
	if got := p.ColorID("linkedin"); got != "2" {
		t.Errorf("Expected second color 2, got %s", got)
	}
}

func TestColorIDRecyclesLeastRecentlyUsed(t *testing.T) {
	p, clock := newTestPalette(t)

	for i := 1; i <= maxColorID; i++ {
		*clock = clock.Add(time.Minute)
		p.ColorID(fmt.Sprintf("platform-%d", i))
	}
	// Touch platform-1 so platform-2 becomes the oldest.
	*clock = clock.Add(time.Minute)
	p.ColorID("platform-1")

	*clock = clock.Add(time.Minute)
	if got := p.ColorID("newcomer"); got != "2" {
		t.Errorf("Expected recycled color 2, got %s", got)
	}
	if _, ok := p.Platforms["platform-2"]; ok {
		t.Error("Expected platform-2 to be evicted")
	}
}

func TestPalettePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), paletteFile)
	p, err := NewPalette(path)
	if err != nil {
		t.Fatal(err)
	}
	p.ColorID("instagram")
	if err := p.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := NewPalette(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.ColorID("instagram"); got != "1" {
		t.Errorf("Expected persisted color 1, got %s", got)
	}
}
