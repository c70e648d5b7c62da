package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrunner/pkg/cli/internal/output"
	"github.com/getmockd/mockrunner/pkg/runner"
)

var (
	checkAllow []string
	checkBlock []string
)

// CheckOutput is the JSON form of one checked name.
type CheckOutput struct {
	Name     string `json:"name"`
	Decision string `json:"decision"`
	Rule     string `json:"rule,omitempty"`
	Allowed  bool   `json:"allowed"`
	Visible  bool   `json:"visible"`
}

var checkCmd = &cobra.Command{
	Use:   "check <name>...",
	Short: "Show how the boundary filter treats symbol names",
	Long: `Evaluate names against the configured allow and block rules.

Each name is reported as allow, block or not-allowed together with the rule
that decided it. VISIBLE tells whether the host defines the name and lets it
through the filter.`,
	Example: `  mockrunner check std.slog.Logger mockrunner.internal.soapmock.SimpleRunner

  # Try out extra rules without editing the config
  mockrunner check --allow com.example. com.example.Service`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Filters.Allow = append(cfg.Filters.Allow, checkAllow...)
		cfg.Filters.Block = append(cfg.Filters.Block, checkBlock...)

		r, err := runner.New(cfg,
			runner.WithLogger(newLogger(cfg, cmd.ErrOrStderr())),
			runner.WithVersion(Version))
		if err != nil {
			return err
		}
		verdicts, err := r.Check(args...)
		if err != nil {
			return err
		}

		results := make([]CheckOutput, len(verdicts))
		for i, v := range verdicts {
			results[i] = CheckOutput{
				Name:     v.Name,
				Decision: v.Decision.String(),
				Rule:     v.Rule,
				Allowed:  v.Allowed(),
				Visible:  v.Visible,
			}
		}

		w := cmd.OutOrStdout()
		return printResult(w, results, func() {
			tw := output.Table(w)
			fmt.Fprintln(tw, "NAME\tDECISION\tRULE\tVISIBLE")
			for _, res := range results {
				rule := res.Rule
				if rule == "" {
					rule = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", res.Name, res.Decision, rule, res.Visible)
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkAllow, "allow", nil, "Additional allow prefixes")
	checkCmd.Flags().StringSliceVar(&checkBlock, "block", nil, "Additional block prefixes")
	rootCmd.AddCommand(checkCmd)
}
