package config

import (
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first configuration file found, or returns defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Path returns the configuration file in use, or "" when there is none.
func (l *Loader) Path() string {
	for _, p := range l.Candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Candidates lists the locations searched, most specific first.
func (l *Loader) Candidates() []string {
	var out []string
	if l.OverridePath != "" {
		out = append(out, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			out = append(out, filepath.Join(wd, ".champimarkrc"))
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		out = append(out,
			filepath.Join(dir, "champimark", "config.rc"),
			filepath.Join(dir, "champimark", "champimark.rc"),
		)
	}
	return out
}

// DefaultPath is where a new configuration file should be written.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "champimark", "config.rc")
}
