package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockrunner/pkg/cli/internal/output"
)

var configSources bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the configuration after defaults, the config file, the environment and
flags have been applied.

With --sources, list where each key was set instead (default, file, env or flag).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if configSources {
			keys := make([]string, 0, len(cfg.Sources))
			for k := range cfg.Sources {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return printResult(w, cfg.Sources, func() {
				tw := output.Table(w)
				fmt.Fprintln(tw, "KEY\tSOURCE")
				for _, k := range keys {
					fmt.Fprintf(tw, "%s\t%s\n", k, cfg.Sources[k])
				}
				_ = tw.Flush()
			})
		}

		if err := cfg.Validate(); err != nil {
			output.Warn(cmd.ErrOrStderr(), "%v", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	configCmd.Flags().BoolVar(&configSources, "sources", false, "List the source of each key")
	rootCmd.AddCommand(configCmd)
}
