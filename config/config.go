package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/masmgr/gitpikchr/internal/pikchr"
)

// Config is the root configuration structure.
type Config struct {
	Layout LayoutConfig `json:"layout" toml:"layout"`
	Import ImportConfig `json:"import" toml:"import"`
}

// LayoutConfig holds diagram geometry options.
type LayoutConfig struct {
	GraphDirection        string `json:"graph_direction" toml:"graph_direction"`                 // "up" or "right"
	CommitHistoryDistance int    `json:"commit_history_distance" toml:"commit_history_distance"` // Default: 3
	BranchDistance        int    `json:"branch_distance" toml:"branch_distance"`                 // Default: 2
	CommitRadius          int    `json:"commit_radius" toml:"commit_radius"`                     // Default: 1
	PackLanes             bool   `json:"pack_lanes" toml:"pack_lanes"`
}

// ImportConfig holds options for reading history from a Git repository.
type ImportConfig struct {
	Include    []string `json:"include" toml:"include"` // Branch globs to include
	Exclude    []string `json:"exclude" toml:"exclude"` // Branch globs to exclude
	MaxCommits int      `json:"max_commits" toml:"max_commits"`
	Abbrev     int      `json:"abbrev" toml:"abbrev"`   // Default: 7
	Backend    string   `json:"backend" toml:"backend"` // "gogit" or "cli"
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	def := pikchr.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			GraphDirection:        string(def.Direction),
			CommitHistoryDistance: def.CommitRowSpacing,
			BranchDistance:        def.LaneColumnSpacing,
			CommitRadius:          def.CommitRadius,
		},
		Import: ImportConfig{
			Include: []string{},
			Exclude: []string{},
			Abbrev:  7,
			Backend: "gogit",
		},
	}
}

// DefaultFileNames are searched, in order, in the working directory and then the home directory.
var DefaultFileNames = []string{".gitpikchr.json", ".gitpikchr.toml"}

// LoadConfig loads configuration from a file, merging with defaults.
// The format follows the extension: .toml is TOML, anything else JSON.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findDefault()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func findDefault() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range DefaultFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports options the emitter cannot work with.
func (c *Config) Validate() error {
	switch pikchr.Direction(c.Layout.GraphDirection) {
	case pikchr.DirectionUp, pikchr.DirectionRight:
	default:
		return fmt.Errorf("invalid graph_direction %q: must be up or right", c.Layout.GraphDirection)
	}
	if c.Layout.CommitHistoryDistance <= 0 {
		return fmt.Errorf("commit_history_distance must be positive, got %d", c.Layout.CommitHistoryDistance)
	}
	if c.Layout.BranchDistance <= 0 {
		return fmt.Errorf("branch_distance must be positive, got %d", c.Layout.BranchDistance)
	}
	if c.Layout.CommitRadius < 0 {
		return fmt.Errorf("commit_radius must not be negative, got %d", c.Layout.CommitRadius)
	}
	if c.Import.MaxCommits < 0 {
		return fmt.Errorf("max_commits must not be negative, got %d", c.Import.MaxCommits)
	}
	if c.Import.Abbrev < 0 {
		return fmt.Errorf("abbrev must not be negative, got %d", c.Import.Abbrev)
	}
	return nil
}

// LayoutWarnings lists geometry that is valid but draws overlapping circles.
func (c *Config) LayoutWarnings() []string {
	var warnings []string
	if c.Layout.CommitHistoryDistance < 2*c.Layout.CommitRadius {
		warnings = append(warnings, fmt.Sprintf("commit_history_distance %d is less than twice commit_radius %d; commits will overlap",
			c.Layout.CommitHistoryDistance, c.Layout.CommitRadius))
	}
	if c.Layout.BranchDistance < 2*c.Layout.CommitRadius {
		warnings = append(warnings, fmt.Sprintf("branch_distance %d is less than twice commit_radius %d; lanes will overlap",
			c.Layout.BranchDistance, c.Layout.CommitRadius))
	}
	return warnings
}

// PikchrOptions converts the layout section to emitter options.
func (c *Config) PikchrOptions() pikchr.Options {
	return pikchr.Options{
		Direction:         pikchr.Direction(c.Layout.GraphDirection),
		CommitRowSpacing:  c.Layout.CommitHistoryDistance,
		LaneColumnSpacing: c.Layout.BranchDistance,
		CommitRadius:      c.Layout.CommitRadius,
	}
}
