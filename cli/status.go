package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/identityops/idctl/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Inspect identity-management status",
}

var (
	checkFormat     string
	checkType       string
	checkTimeout    int
	checkParallel   bool
	checkSequential bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run status checks and print a report",
	Long: `Run all registered status checks and print the assembled report.

With --type only the named check runs. A degraded or failed component
never changes the exit code: as long as a report was produced, the exit
code is 0. Inspect the report's levels to judge the deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := newRuntime(ctx, func(cfg *status.CheckConfig) {
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = time.Duration(checkTimeout) * time.Second
			}
			if checkParallel {
				cfg.Parallel = true
			}
			if checkSequential {
				cfg.Parallel = false
			}
		})
		if err != nil {
			return err
		}
		defer rt.close()

		if checkType != "" {
			res, err := rt.orch.Specific(ctx, status.CheckName(checkType))
			if err != nil {
				return fmt.Errorf("cli: check %q: %w", checkType, err)
			}
			out, err := formatResult(checkFormat, res)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		}

		f, err := formatterFor(checkFormat)
		if err != nil {
			return err
		}
		report, err := rt.orch.Comprehensive(ctx)
		if err != nil {
			return err
		}
		out, err := f.Format(report)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "table", "output format (json|csv|table)")
	checkCmd.Flags().StringVar(&checkType, "type", "", "run a single check (health|provisioning|orphaned|sync|summary)")
	checkCmd.Flags().IntVar(&checkTimeout, "timeout", 30, "per-attempt check timeout in seconds")
	checkCmd.Flags().BoolVar(&checkParallel, "parallel", false, "force parallel execution")
	checkCmd.Flags().BoolVar(&checkSequential, "sequential", false, "force sequential execution")
	checkCmd.MarkFlagsMutuallyExclusive("parallel", "sequential")

	statusCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
}
