package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/champimark/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.config.String())
		return err
	case "save":
		return c.runSave()
	case "path":
		_, err := fmt.Fprintln(c.stdout, c.path())
		return err
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

// path is the file in use, or the default location for a new one.
func (c *configCmd) path() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.NewLoader(version, configPathOverride).DefaultPath()
}

func (c *configCmd) runSave() error {
	path := c.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(c.config.String()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
