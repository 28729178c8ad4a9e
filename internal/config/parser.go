package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/champimark/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "//") {
			continue
		}

		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			raw := strings.TrimSpace(text[1 : len(text)-1])
			section = strings.ToLower(raw)
			current = nil
			if strings.HasPrefix(section, "theme.") {
				name := raw[len("theme."):]
				// start from defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := theme.SplitKeyValue(text)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = theme.Set(current, key, value)
		case section == "":
			setRoot(cfg, key, value)
		case section == "annotate":
			err = setAnnotate(&cfg.Annotate, key, value)
		case section == "export":
			err = setExport(&cfg.Export, key, value)
		case section == "notify":
			err = setNotify(&cfg.Notify, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			return nil, fmt.Errorf("line %d in section [%s]: %w", line, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRoot(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "output_dir":
		cfg.OutputDir = value
	}
}

func setAnnotate(a *Annotate, key, value string) error {
	k := strings.ToLower(key)
	switch k {
	case "shape":
		a.Shape = value
		return nil
	case "fit_on_load", "labels":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		if k == "labels" {
			a.Labels = b
		} else {
			a.FitOnLoad = b
		}
		return nil
	}
	dst := map[string]*float64{
		"min_size":     &a.MinSize,
		"min_zoom":     &a.MinZoom,
		"max_zoom":     &a.MaxZoom,
		"wheel_step":   &a.WheelStep,
		"render_scale": &a.RenderScale,
	}[k]
	if dst == nil {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("invalid positive number for key %s: %q", key, value)
	}
	*dst = f
	return nil
}

func setExport(e *Export, key, value string) error {
	switch strings.ToLower(key) {
	case "format":
		e.Format = strings.ToLower(value)
	case "quality":
		q, err := strconv.Atoi(value)
		if err != nil || q < 1 || q > 100 {
			return fmt.Errorf("quality must be between 1 and 100, got %q", value)
		}
		e.Quality = q
	case "normalized", "normalised":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		e.Normalized = b
	}
	return nil
}

func setNotify(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}
