package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/identityops/idctl/checks"
	"github.com/identityops/idctl/status"
)

var (
	cleanupDryRun  bool
	cleanupExecute bool
	cleanupForce   bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Detect and remove orphaned account assignments",
	Long: `Detect account assignments whose principal no longer exists and
revoke them.

The default is a dry run: orphans are reported and no revoke call is
issued. Pass --execute to revoke for real; without --force you will be
asked to confirm first. Revocations are independent, a single failure
never aborts the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := newRuntime(ctx, nil)
		if err != nil {
			return err
		}
		defer rt.close()

		res, err := rt.orch.Specific(ctx, status.CheckOrphaned)
		if err != nil {
			return err
		}
		orphaned, ok := res.(status.OrphanedAssignmentStatus)
		if !ok {
			return fmt.Errorf("cli: unexpected result type %T for orphan detection", res)
		}

		if len(orphaned.OrphanedAssignments) == 0 {
			color.Green("✓ No orphaned assignments found")
			if orphaned.UnresolvedCount > 0 {
				color.Yellow("⚠ %d assignments could not be resolved; rerun later", orphaned.UnresolvedCount)
			}
			return nil
		}

		color.Yellow("⚠ Found %d orphaned assignments", len(orphaned.OrphanedAssignments))
		for _, o := range orphaned.OrphanedAssignments {
			fmt.Printf("  %s (%s %s)\n", o.AssignmentID, strings.ToLower(o.PrincipalType), o.PrincipalID)
		}

		opts := checks.CleanupOptions{Execute: cleanupExecute}
		if opts.Execute && !cleanupForce {
			if !confirm(fmt.Sprintf("Revoke %d assignments? [y/N]: ", len(orphaned.OrphanedAssignments))) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		result, err := rt.orphans.Cleanup(ctx, orphaned.OrphanedAssignments, opts)
		if err != nil {
			return err
		}

		if result.DryRun {
			color.Cyan("Dry run: %d assignments would be revoked. Pass --execute to revoke.", result.CleanedCount)
			return nil
		}
		color.Green("✓ Revoked %d assignments", result.CleanedCount)
		if result.FailedCount > 0 {
			color.Red("✗ %d revocations failed:", result.FailedCount)
			for _, msg := range result.Errors {
				fmt.Printf("  %s\n", msg)
			}
		}
		return nil
	},
}

// confirm prompts on stdout and reads one line from stdin. Anything but an
// explicit yes declines.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", true, "report orphans without revoking")
	cleanupCmd.Flags().BoolVar(&cleanupExecute, "execute", false, "actually revoke orphaned assignments")
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "skip the confirmation prompt")
	cleanupCmd.MarkFlagsMutuallyExclusive("dry-run", "execute")

	statusCmd.AddCommand(cleanupCmd)
}
