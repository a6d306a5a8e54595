package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <type> <id>",
	Short: "Inspect a single user, group, or permission set",
	Long: `Look up one resource by identifier and report its status.

A missing resource is not an error: the report marks it NOT_FOUND and
lists up to five similarly named resources.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		resourceType, resourceID := args[0], args[1]

		rt, err := newRuntime(ctx, nil)
		if err != nil {
			return err
		}
		defer rt.close()

		res, err := rt.orch.InspectResource(ctx, resourceType, resourceID)
		if err != nil {
			return fmt.Errorf("cli: inspect %s %s: %w", resourceType, resourceID, err)
		}

		switch inspectFormat {
		case "json":
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(out, '\n'))
			return err
		case "table":
			if res.Target != nil && res.Target.Exists {
				color.Green("✓ %s %s: %s", resourceType, resourceID, res.Target.Status)
			} else {
				color.Yellow("⚠ %s %s not found", resourceType, resourceID)
			}
			fmt.Println(res.Summary())
			for _, name := range res.SimilarResources {
				fmt.Printf("  similar: %s\n", name)
			}
			return nil
		default:
			return fmt.Errorf("cli: unknown format %q (want json or table)", inspectFormat)
		}
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "output format (json|table)")
	statusCmd.AddCommand(inspectCmd)
}
