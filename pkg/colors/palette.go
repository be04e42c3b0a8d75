// Package colors assigns Google Calendar event colors to publishing
// platforms, recycling the least recently used color once all are taken.
package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	paletteFile = "platform_colors.json"

	// NoPlatformColor is graphite, used for tasks without a platform.
	NoPlatformColor = "8"

	// Google Calendar event colors 1..11.
	maxColorID = 11
)

type PlatformState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// Palette is the persisted platform to color assignment.
type Palette struct {
	Path      string
	Platforms map[string]*PlatformState `json:"platforms"`
	now       func() time.Time
	dirty     bool
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "schedalize", paletteFile), nil
}

// NewPalette opens the palette at path, starting empty when the file is absent.
func NewPalette(path string) (*Palette, error) {
	p := &Palette{
		Path:      path,
		Platforms: make(map[string]*PlatformState),
		now:       time.Now,
	}

	if _, err := os.Stat(path); err == nil {
		if err := p.Load(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Palette) Load() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&p.Platforms)
}

func (p *Palette) Save() error {
	if !p.dirty {
		return nil
	}
	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("[colors] error creating palette directory: %v", err)
		return err
	}

	f, err := os.Create(p.Path)
	if err != nil {
		log.Printf("[colors] error creating palette file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(p.Platforms)
	if err == nil {
		p.dirty = false
	}
	return err
}

// ColorID returns the color for platform, assigning one on first sight.
// Platform names are case-insensitive.
func (p *Palette) ColorID(platform string) string {
	key := strings.ToLower(strings.TrimSpace(platform))
	if key == "" {
		return NoPlatformColor
	}

	if state, exists := p.Platforms[key]; exists {
		state.LastUsed = p.now()
		p.dirty = true
		return state.ColorID
	}
	return p.assign(key)
}

func (p *Palette) assign(platform string) string {
	used := make(map[string]bool)
	for _, s := range p.Platforms {
		used[s.ColorID] = true
	}

	for i := 1; i <= maxColorID; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			p.Platforms[platform] = &PlatformState{ColorID: id, LastUsed: p.now()}
			p.dirty = true
			return id
		}
	}

	// Full: recycle the least recently used color.
	var oldest string
	var oldestTime time.Time
	first := true
	for name, s := range p.Platforms {
		if first || s.LastUsed.Before(oldestTime) {
			oldestTime = s.LastUsed
			oldest = name
			first = false
		}
	}

	recycled := p.Platforms[oldest].ColorID
	delete(p.Platforms, oldest)
	p.Platforms[platform] = &PlatformState{ColorID: recycled, LastUsed: p.now()}
	p.dirty = true
	return recycled
}
