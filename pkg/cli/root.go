package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrunner/pkg/cli/internal/output"
	"github.com/getmockd/mockrunner/pkg/config"
	"github.com/getmockd/mockrunner/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configFile string
	logLevel   string
	logFormat  string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockrunner",
	Short: "mockrunner runs SoapUI mock services in an isolated boundary",
	Long: `mockrunner resolves a mock implementation from Maven repositories, loads it
behind a filtered boundary and starts the mock service described by a SoapUI project.

Configuration can be provided via flags, environment variables (MOCKRUNNER_*), or a
YAML configuration file passed with --config or MOCKRUNNER_CONFIG.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Run()
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if code := Run(); code != 0 {
		os.Exit(code)
	}
}

// Run runs the root command with os.Args and returns the process exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (default: $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig loads defaults, the config file and the environment, then
// applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadAll(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		cfg.SetSource("log.level", config.SourceFlag)
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
		cfg.SetSource("log.format", config.SourceFlag)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so that command
// results on stdout stay machine readable.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: w,
	})
}

// printResult writes data as JSON when --json is set, otherwise calls textFn.
//
// When --json is active, ONLY the JSON encoding of data is written to stdout.
func printResult(w io.Writer, data any, textFn func()) error {
	if jsonOutput {
		return output.JSON(w, data)
	}
	textFn()
	return nil
}
