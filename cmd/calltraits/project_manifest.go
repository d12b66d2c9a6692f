package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "calltraits.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Check  checkConfig  `toml:"check"`
	Types  typesConfig  `toml:"types"`
	Output outputConfig `toml:"output"`
}

type checkConfig struct {
	Files []string `toml:"files"`
	Jobs  int      `toml:"jobs"`
	Cache bool     `toml:"cache"`
}

type typesConfig struct {
	Wrappers []string `toml:"wrappers"`
}

type outputConfig struct {
	Color  string `toml:"color"`
	Format string `toml:"format"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest finds calltraits.toml at or above startDir. A missing
// manifest is not an error: it returns nil, false, nil.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	cfg := projectConfig{Check: checkConfig{Cache: true}}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Check.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	for _, f := range cfg.Check.Files {
		if strings.TrimSpace(f) == "" {
			return projectConfig{}, fmt.Errorf("%s: [check].files contains an empty path", path)
		}
	}
	if meta.IsDefined("types", "wrappers") {
		if len(cfg.Types.Wrappers) == 0 {
			return projectConfig{}, fmt.Errorf("%s: [types].wrappers must not be empty", path)
		}
		for _, w := range cfg.Types.Wrappers {
			if strings.TrimSpace(w) == "" {
				return projectConfig{}, fmt.Errorf("%s: [types].wrappers contains an empty name", path)
			}
		}
	}
	if c := cfg.Output.Color; c != "" && !slices.Contains([]string{"auto", "on", "off"}, c) {
		return projectConfig{}, fmt.Errorf("%s: [output].color must be auto, on or off", path)
	}
	if f := cfg.Output.Format; f != "" && !slices.Contains(checkFormats, f) {
		return projectConfig{}, fmt.Errorf("%s: [output].format must be one of %s", path, strings.Join(checkFormats, ", "))
	}
	return cfg, nil
}

// checkFiles returns [check].files resolved against the manifest directory.
func (m *projectManifest) checkFiles() []string {
	if m == nil {
		return nil
	}
	files := make([]string, 0, len(m.Config.Check.Files))
	for _, f := range m.Config.Check.Files {
		f = filepath.FromSlash(strings.TrimSpace(f))
		if !filepath.IsAbs(f) {
			f = filepath.Join(m.Root, f)
		}
		files = append(files, f)
	}
	return files
}

func (m *projectManifest) wrappers() []string {
	if m == nil {
		return nil
	}
	return m.Config.Types.Wrappers
}

// currentManifest loads the manifest for the working directory.
func currentManifest() (*projectManifest, error) {
	manifest, _, err := loadProjectManifest(".")
	return manifest, err
}
