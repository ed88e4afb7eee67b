package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file name (without extension) searched for in
// the working directory when no --config flag is given.
const DefaultFileName = ".kirofs"

// WatchConfig holds configuration specific to watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Options holds all the configuration settings for the kirofs tool.
// Tags are used by Viper for unmarshalling from config files, env vars, and flags.
type Options struct {
	// Workspace is the workspace root folder. Empty means the current
	// working directory at startup.
	Workspace string `mapstructure:"workspace"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	// Watch holds watch-mode settings.
	Watch WatchConfig `mapstructure:"watch"`

	// ConfigFile is the path of the config file used, when given explicitly.
	ConfigFile string `mapstructure:"config"`
}

// ValidateConfig checks the loaded configuration options for validity.
func (opts *Options) ValidateConfig() error {
	var errs []string

	if opts.Workspace != "" {
		info, err := os.Stat(opts.Workspace)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Sprintf("workspace path '%s' does not exist", opts.Workspace))
			} else {
				errs = append(errs, fmt.Sprintf("cannot access workspace path '%s': %v", opts.Workspace, err))
			}
		} else if !info.IsDir() {
			errs = append(errs, fmt.Sprintf("workspace path '%s' is not a directory", opts.Workspace))
		}
	}

	if opts.Watch.Debounce < 0 {
		errs = append(errs, "watch.debounce duration must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ResolveWorkspace returns the effective workspace root: the configured path
// if set, otherwise the current working directory.
func (opts *Options) ResolveWorkspace() (string, error) {
	if opts.Workspace != "" {
		return opts.Workspace, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return cwd, nil
}

// scaffold is the shape written by WriteDefault. Debounce is a string so the
// generated file reads naturally ("300ms"); viper's duration hook parses it
// back on load.
type scaffold struct {
	Workspace string        `yaml:"workspace" toml:"workspace"`
	Verbose   bool          `yaml:"verbose" toml:"verbose"`
	Watch     scaffoldWatch `yaml:"watch" toml:"watch"`
}

type scaffoldWatch struct {
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// WriteDefault writes a starter config file at path in the given format
// ("yaml" or "toml"). It refuses to overwrite an existing file.
func WriteDefault(path string, format string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot check config file %s: %w", path, err)
	}

	defaults := scaffold{
		Workspace: "",
		Verbose:   false,
		Watch:     scaffoldWatch{Debounce: "300ms"},
	}

	var data []byte
	var err error
	switch format {
	case "yaml":
		data, err = yaml.Marshal(defaults)
	case "toml":
		data, err = toml.Marshal(defaults)
	default:
		return fmt.Errorf("unsupported config format %q (expected 'yaml' or 'toml')", format)
	}
	if err != nil {
		return fmt.Errorf("cannot render default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config file %s: %w", path, err)
	}
	return nil
}
