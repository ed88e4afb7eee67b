package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirotools/kirofs/internal/config"
	"github.com/kirotools/kirofs/internal/fsops"
	"github.com/kirotools/kirofs/internal/watcher"
	"github.com/kirotools/kirofs/internal/workspace"
)

// Variables for version embedding via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes defined for clarity.
const (
	ExitCodeSuccess        = 0
	ExitCodeOperationError = 1
	ExitCodeConfigError    = 2
	ExitCodeInterrupt      = 3
)

var (
	opts   *config.Options
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kirofs",
	Short: "Manage the .kiro workspace directory layout and its documents",
	Long: `Kirofs provides file-system operations for the .kiro workspace layout:
steering documents, specs, settings, and framework metadata. It resolves
workspace-relative paths, creates the directory structure, and reads, writes,
copies, deletes, and lists files with consistent error reporting.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setup unmarshals the merged viper configuration, validates it, and builds
// the logger and operations façade. Called at the start of every subcommand.
func setup() (*fsops.Operations, error) {
	if err := viper.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	if err := opts.ValidateConfig(); err != nil {
		return nil, err
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logHandler)

	root, err := opts.ResolveWorkspace()
	if err != nil {
		return nil, err
	}
	logger.Debug("Workspace resolved", "root", root)

	return fsops.NewDefault(workspace.NewStaticHost(root)), nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .kiro workspace directory layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}

		accessors := []func() (string, error){
			ops.SteeringPath,
			ops.SpecsPath,
			ops.SettingsPath,
			ops.MetadataPath,
			ops.FrameworksPath,
		}
		for _, accessor := range accessors {
			dir, err := accessor()
			if err != nil {
				return err
			}
			if err := ops.EnsureDirectory(dir); err != nil {
				return err
			}
			logger.Info("Directory ready", "path", dir)
		}
		return nil
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved workspace-relative paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}

		root, ok := ops.WorkspacePath()
		if !ok {
			return fsops.ErrNoWorkspace
		}
		kiro, _ := ops.KiroPath()
		fmt.Fprintf(cmd.OutOrStdout(), "workspace:  %s\n", root)
		fmt.Fprintf(cmd.OutOrStdout(), "kiro:       %s\n", kiro)

		for _, entry := range []struct {
			label    string
			accessor func() (string, error)
		}{
			{"steering", ops.SteeringPath},
			{"specs", ops.SpecsPath},
			{"settings", ops.SettingsPath},
			{"metadata", ops.MetadataPath},
			{"frameworks", ops.FrameworksPath},
		} {
			path, err := entry.accessor()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-11s %s\n", entry.label+":", path)
		}
		return nil
	},
}

var lsPattern string

var lsCmd = &cobra.Command{
	Use:   "ls [directory]",
	Short: "List files in a workspace directory (default: steering)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}

		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			dir, err = ops.SteeringPath()
			if err != nil {
				return err
			}
		}

		names, err := ops.ListFiles(dir, lsPattern)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Print the content of a workspace file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}
		content, err := ops.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <file> <content>",
	Short: "Write content to a workspace file, creating parent directories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}
		if err := ops.WriteFile(args[0], args[1]); err != nil {
			return err
		}
		logger.Info("File written", "path", args[0])
		return nil
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp <source> <destination>",
	Short: "Copy a workspace file, creating the destination's parent directories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}
		if err := ops.CopyFile(args[0], args[1]); err != nil {
			return err
		}
		logger.Info("File copied", "source", args[0], "destination", args[1])
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <file>",
	Short: "Delete a workspace file (no error if already absent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}
		if err := ops.DeleteFile(args[0]); err != nil {
			return err
		}
		logger.Info("File deleted", "path", args[0])
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the steering directory and report changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := setup()
		if err != nil {
			return err
		}

		steering, err := ops.SteeringPath()
		if err != nil {
			return err
		}
		if err := ops.EnsureDirectory(steering); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := watcher.New(logger, opts.Watch.Debounce)
		return w.Watch(ctx, steering, func(paths []string) {
			logger.Info("Steering documents changed", "count", len(paths), "paths", paths)
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the kirofs configuration file",
}

var configInitFormat string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configInitFormat != "yaml" && configInitFormat != "toml" {
			return fmt.Errorf("unsupported config format %q (expected 'yaml' or 'toml')", configInitFormat)
		}
		path := config.DefaultFileName + "." + configInitFormat
		if err := config.WriteDefault(path, configInitFormat); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if strings.Contains(err.Error(), "invalid configuration") ||
			strings.Contains(err.Error(), "unsupported config format") {
			os.Exit(ExitCodeConfigError)
		}
		if errors.Is(err, context.Canceled) {
			os.Exit(ExitCodeInterrupt)
		}
		os.Exit(ExitCodeOperationError)
	}
}

func init() {
	opts = &config.Options{}
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&opts.Workspace, "workspace", "w", "", "Workspace root folder (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file path (default: .kirofs.yaml, .kirofs.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose debug logging")

	lsCmd.Flags().StringVar(&lsPattern, "pattern", "", "Regular expression filter for file names")
	configInitCmd.Flags().StringVar(&configInitFormat, "format", "yaml", "Config file format: 'yaml' or 'toml'")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(initCmd, pathsCmd, lsCmd, catCmd, writeCmd, cpCmd, rmCmd, watchCmd, configCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("kirofs version %s (commit: %s, built: %s)\n", version, commit, date))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v := viper.New()

	v.SetDefault("workspace", "")
	v.SetDefault("verbose", false)
	v.SetDefault("watch.debounce", "300ms")

	v.AutomaticEnv()
	v.SetEnvPrefix("KIROFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading specified config file %s: %v\n", opts.ConfigFile, err)
			os.Exit(ExitCodeConfigError)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(config.DefaultFileName)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), err)
				os.Exit(ExitCodeConfigError)
			}
			// Config file not found, which is fine if not specified via flag.
		}
	}

	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Internal error binding flags to viper: %v\n", err)
		os.Exit(ExitCodeConfigError)
	}

	if err := viper.MergeConfigMap(v.AllSettings()); err != nil {
		fmt.Fprintf(os.Stderr, "Internal error merging viper settings: %v\n", err)
		os.Exit(ExitCodeConfigError)
	}
}

func main() {
	Execute()
}
