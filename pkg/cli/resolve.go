package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrunner/pkg/artifact"
	"github.com/getmockd/mockrunner/pkg/config"
	"github.com/getmockd/mockrunner/pkg/runner"
)

var (
	resolveLocalRepo string
	resolveProxy     string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [coordinate...]",
	Short: "Resolve the implementation classpath",
	Long: `Resolve artifacts and their runtime dependencies into the local repository
and print the resulting classpath, one file per line.

Coordinates use the form group:name[:extension[:classifier]]:version. Without
arguments the configured artifacts are resolved.`,
	Example: `  # Resolve the configured implementation
  mockrunner resolve

  # Resolve a specific artifact through a proxy
  mockrunner resolve com.smartbear.soapui:soapui:5.1.2 --proxy http://proxy:3128`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Artifacts = args
			cfg.SetSource("artifacts", config.SourceFlag)
		}
		if resolveLocalRepo != "" {
			cfg.LocalRepository = resolveLocalRepo
			cfg.SetSource("localRepository", config.SourceFlag)
		}
		if resolveProxy != "" {
			cfg.Proxy = resolveProxy
			cfg.SetSource("proxy", config.SourceFlag)
		}

		r, err := runner.New(cfg,
			runner.WithLogger(newLogger(cfg, cmd.ErrOrStderr())),
			runner.WithVersion(Version))
		if err != nil {
			return err
		}
		entries, err := r.Resolve(cmd.Context())
		if err != nil {
			return fmt.Errorf("resolve failed: %w", err)
		}
		if entries == nil {
			entries = []artifact.Entry{}
		}

		out := cmd.OutOrStdout()
		return printResult(out, entries, func() {
			for _, e := range entries {
				fmt.Fprintln(out, e.Path)
			}
		})
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveLocalRepo, "local-repo", "", "Local repository directory")
	resolveCmd.Flags().StringVar(&resolveProxy, "proxy", "", "Proxy URL applied to every repository")
	rootCmd.AddCommand(resolveCmd)
}
