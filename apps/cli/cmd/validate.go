package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registered cases without running them",
	Long: `Check that every runnable case has exactly one @When step and at
least one @Then or @ThenThrow step, counting inherited steps.

Examples:
  gwtspec validate`,
	Args: cobra.NoArgs,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, node := range registry.Nodes() {
		if !node.IsRunnable() {
			continue
		}

		errs := validator.Validate(node)
		if len(errs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", node.Name())
			continue
		}

		hasErrors = true
		for _, err := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %v\n", err)
		}
	}

	if hasErrors {
		return &exitError{code: ExitValidationError, err: fmt.Errorf("validation failed")}
	}
	return nil
}
