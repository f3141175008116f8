package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configFileName = "calc.toml"

type fileConfig struct {
	Diag  diagConfig  `toml:"diag"`
	Trace traceConfig `toml:"trace"`
}

type diagConfig struct {
	Format    string `toml:"format"`
	Max       int    `toml:"max"`
	Jobs      int    `toml:"jobs"`
	DiskCache bool   `toml:"disk_cache"`
	UI        string `toml:"ui"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

// configBinding maps a TOML key to the flag it defaults.
type configBinding struct {
	command string // пусто - для любой команды
	key     []string
	flag    string
	value   func(*fileConfig) string
}

var configBindings = []configBinding{
	{"diag", []string{"diag", "format"}, "format", func(c *fileConfig) string { return c.Diag.Format }},
	{"diag", []string{"diag", "max"}, "max-diagnostics", func(c *fileConfig) string { return strconv.Itoa(c.Diag.Max) }},
	{"diag", []string{"diag", "jobs"}, "jobs", func(c *fileConfig) string { return strconv.Itoa(c.Diag.Jobs) }},
	{"diag", []string{"diag", "disk_cache"}, "disk-cache", func(c *fileConfig) string { return strconv.FormatBool(c.Diag.DiskCache) }},
	{"diag", []string{"diag", "ui"}, "ui", func(c *fileConfig) string { return c.Diag.UI }},
	{"", []string{"trace", "level"}, "trace-level", func(c *fileConfig) string { return c.Trace.Level }},
	{"", []string{"trace", "output"}, "trace", func(c *fileConfig) string { return c.Trace.Output }},
	{"", []string{"trace", "mode"}, "trace-mode", func(c *fileConfig) string { return c.Trace.Mode }},
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func loadConfig(path string) (*fileConfig, toml.MetaData, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, meta, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, meta, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("diag", "format") {
		switch cfg.Diag.Format {
		case "pretty", "short", "json":
		default:
			return nil, meta, fmt.Errorf("%s: [diag].format must be pretty, short or json", path)
		}
	}
	if meta.IsDefined("diag", "max") && cfg.Diag.Max < 0 {
		return nil, meta, fmt.Errorf("%s: [diag].max must not be negative", path)
	}
	return &cfg, meta, nil
}

// applyConfig fills flags the user did not set from calc.toml.
func applyConfig(cmd *cobra.Command) error {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil || !ok {
			return err
		}
		path = found
	}
	cfg, meta, err := loadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for _, b := range configBindings {
		if b.command != "" && b.command != cmd.Name() {
			continue
		}
		if !meta.IsDefined(b.key...) {
			continue
		}
		f := flags.Lookup(b.flag)
		if f == nil || f.Changed {
			continue
		}
		if err := flags.Set(b.flag, b.value(cfg)); err != nil {
			return fmt.Errorf("%s: [%s]: %w", path, strings.Join(b.key, "."), err)
		}
	}
	return nil
}
