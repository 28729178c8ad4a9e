package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Overrides are themes declared inline in the RC file.
	Overrides map[string]*Theme
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "champimark", "themes"),
		SystemDir: "/usr/share/champimark/themes",
	}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. Inline overrides from the config file.
// 2. If it's a file path that exists, load it.
// 3. Check embedded themes.
// 4. Check ConfigDir.
// 5. Check SystemDir.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if t, ok := l.Overrides[name]; ok {
		return t, nil
	}

	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

// Names lists every theme Load can find by name, sorted.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	for n := range l.Overrides {
		seen[n] = true
	}
	if entries, err := fs.ReadDir(EmbeddedThemes, "defaults"); err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".theme")] = true
		}
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.theme"))
		for _, m := range matches {
			seen[strings.TrimSuffix(filepath.Base(m), ".theme")] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
