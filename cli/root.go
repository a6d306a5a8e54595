package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	profilePath string
	verbose     bool

	buildVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "idctl",
	Short: "Identity management status control",
	Long: `idctl inspects the health of a cloud identity-management control plane:
endpoint connectivity, permission provisioning, orphaned account
assignments, external identity-provider sync, and summary statistics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the command tree. A non-nil return means no report
// could be produced; callers should exit non-zero.
func ExecuteContext(ctx context.Context, version string) error {
	buildVersion = version
	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("✗ %v", err)
		return err
	}
	return nil
}

func effectiveLogLevel() string {
	if verbose {
		return "debug"
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "profile file (default $HOME/.idctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
