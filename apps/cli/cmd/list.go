package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
	"github.com/spf13/cobra"
)

var listNameFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered cases",
	Long: `List the registered cases in registration order, with their subjects.
Base cases without a description are listed but never run.

Examples:
  gwtspec list
  gwtspec list --name "Divide*"`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVarP(&listNameFlag, "name", "n", "", "List only cases matching name pattern")
}

func listCommand(cmd *cobra.Command, args []string) error {
	filter := suite.Filter{Name: listNameFlag}

	count := 0
	for _, node := range registry.Nodes() {
		if !filter.Matches(node) {
			continue
		}
		count++

		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", node)
		if parent := node.Parent(); parent != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "    extends: %s\n", parent.Name())
		}
		if subjects := node.Subjects(); len(subjects) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "    subjects: %v\n", subjects)
		}
		switch {
		case !node.IsRunnable():
			fmt.Fprintf(cmd.OutOrStdout(), "    base case, not runnable\n")
		case node.IsIgnored():
			fmt.Fprintf(cmd.OutOrStdout(), "    ignored: %s\n", node.IgnoreReason())
		}
	}

	if count == 0 {
		return fmt.Errorf("no cases registered")
	}
	return nil
}
