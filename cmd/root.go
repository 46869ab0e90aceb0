package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MladenSU/color-mtr/config"
	"github.com/MladenSU/color-mtr/pkg/tools"
	"github.com/MladenSU/color-mtr/pkg/tools/logger"

	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	env = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "cmtr [mtr options] HOSTNAME",
	Short: "Colorized mtr report",
	Long: `Run mtr with JSON output and print the report as a colorized table.

Every argument is passed to mtr unchanged; -j is appended when missing.
Loss% and latency columns (Last, Avg, Best, Wrst, StDev) are colored
green, yellow or red against the configured warn/crit thresholds.

Configuration is read from ./cmtr.yaml (or $CMTR_CONFIG) and can be
overridden with CMTR_* environment variables, e.g. CMTR_LATENCY_WARN=20.

Examples:
  # 10 cycles to example.com
  cmtr -c 10 example.com

  # Show mtr's own usage
  cmtr --help`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: runReport,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file, applies env overrides and initializes the logger
func loadConfig() error {
	path := env.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigFile
	}

	var (
		c   *config.Config
		err error
	)
	if explicit {
		c, err = config.LoadConfig(path)
		if err == nil {
			c.ApplyDefaults()
		}
	} else {
		c, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}

	if err := c.ApplyOverrides(env); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(logger.Config{
		Level:  logger.LogLevel(c.Log.Level),
		Format: c.Log.Format,
	})
	logger.Debug("Configuration loaded", "path", path, "explicit", explicit)

	cfg = c
	return nil
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	cfg = nil
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()

	mode := config.ColorAuto
	if cfg != nil {
		mode = cfg.Color
	}
	return exitCode(err, stdout, stderr, tools.ColorEnabled(mode, stderr))
}
