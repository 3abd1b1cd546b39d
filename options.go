package holo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Options configures a Renderer and the window its host opens. Loaded from a
// TOML file so examples and tools share one format.
type Options struct {
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
	Title        string `toml:"title"`

	// ClearColor fills the frame before any volume renders.
	ClearColor Color `toml:"clear_color"`

	// GlyphCacheSize bounds the number of live text textures.
	GlyphCacheSize int `toml:"glyph_cache_size"`

	// ScreenshotDir receives PNG captures. Created on first use.
	ScreenshotDir string `toml:"screenshot_dir"`
}

// DefaultOptions returns the settings used when no file is present.
func DefaultOptions() Options {
	return Options{
		WindowWidth:    1280,
		WindowHeight:   720,
		Title:          "holo",
		ClearColor:     Color{R: 0.1, G: 0.1, B: 0.15, A: 1},
		GlyphCacheSize: 1024,
		ScreenshotDir:  "screenshots",
	}
}

// LoadOptions reads a TOML options file. A missing file returns the defaults
// without error; a malformed file returns the defaults and the error.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("holo: load options: %w", err)
	}
	return opts, nil
}

// Save writes the options as TOML, creating parent directories as needed.
func (o Options) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("holo: save options: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("holo: save options: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(o); err != nil {
		return fmt.Errorf("holo: save options: %w", err)
	}
	return nil
}
