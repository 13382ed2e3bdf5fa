package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/ConvoClaw/ConvoClaw/internal/summarize"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".convoclaw"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file. CONVOCLAW_CONFIG
// overrides the location; paths starting with ~ are expanded.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("CONVOCLAW_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := resolveHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := resolveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

func resolveHomeDir() (string, error) {
	if h := strings.TrimSpace(os.Getenv("CONVOCLAW_HOME")); h != "" {
		if strings.HasPrefix(h, "~") {
			base, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(base, h[1:]), nil
		}
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home, nil
}

// Load reads the config file (if present) and applies CONVOCLAW_* env
// overrides. A missing file is not an error: defaults apply.
func Load() (Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	envconfig.Process("CONVOCLAW", &cfg)
	envconfig.Process("CONVOCLAW_REMOTE", &cfg.Remote)
	envconfig.Process("CONVOCLAW_JOURNAL", &cfg.Journal)
	envconfig.Process("CONVOCLAW_TIMELINE", &cfg.Timeline)

	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		home, err := resolveHomeDir()
		if err != nil {
			return cfg, err
		}
		cfg.Journal.Path = filepath.Join(home, ConfigDir, "journal.db")
	}
	return cfg, nil
}

// Save writes cfg as indented JSON to the config path, creating the
// directory if needed.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func summarizeFormat(raw string) summarize.Format {
	f := summarize.Format(strings.ToLower(strings.TrimSpace(raw)))
	if f.Valid() {
		return f
	}
	return summarize.FormatParagraph
}
