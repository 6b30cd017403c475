package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// themeFile is the YAML structure for palette overrides. Every field is
// optional; empty fields keep the default color. Color values are names from
// the closed color set ("green", "light_blue", ...), not raw escape codes.
type themeFile struct {
	Accent  string   `yaml:"accent"`
	Label   string   `yaml:"label"`
	Link    string   `yaml:"link"`
	Repo    string   `yaml:"repo"`
	Error   string   `yaml:"error"`
	Warn    string   `yaml:"warn"`
	Heatmap []string `yaml:"heatmap"`
}

// LoadTheme reads a YAML theme file and applies it on top of the default
// palette. A bad color name or a heatmap list of the wrong length is a
// configuration error.
func LoadTheme(path string) (Palette, error) {
	pal := DefaultPalette()

	data, err := os.ReadFile(path)
	if err != nil {
		return pal, fmt.Errorf("reading theme: %w", err)
	}

	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return pal, fmt.Errorf("parsing theme %s: %w", path, err)
	}

	slots := []struct {
		name string
		dst  *Color
	}{
		{tf.Accent, &pal.Accent},
		{tf.Label, &pal.Label},
		{tf.Link, &pal.Link},
		{tf.Repo, &pal.Repo},
		{tf.Error, &pal.Error},
		{tf.Warn, &pal.Warn},
	}
	for _, s := range slots {
		if s.name == "" {
			continue
		}
		c, err := ParseColor(s.name)
		if err != nil {
			return pal, fmt.Errorf("theme %s: %w", path, err)
		}
		*s.dst = c
	}

	if tf.Heatmap != nil {
		if len(tf.Heatmap) != len(pal.Heatmap) {
			return pal, fmt.Errorf("theme %s: heatmap needs %d colors, got %d", path, len(pal.Heatmap), len(tf.Heatmap))
		}
		for i, name := range tf.Heatmap {
			c, err := ParseColor(name)
			if err != nil {
				return pal, fmt.Errorf("theme %s: %w", path, err)
			}
			pal.Heatmap[i] = c
		}
	}

	return pal, nil
}

// defaultThemePath returns the theme file location under the user config dir,
// or "" if the home directory cannot be determined.
func defaultThemePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ghfetch", "theme.yaml")
}
