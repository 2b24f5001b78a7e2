package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
	registry  = suite.NewRegistry()
)

var rootCmd = &cobra.Command{
	Use:   "gwtspec",
	Short: "Given, When, Then. Nothing else.",
	Long: `gwtspec runs test cases written as Given/When/Then steps.

Cases are plain Go values registered by the program that embeds this
CLI. Cases can extend other cases, receive their system under test from
providers, and declare the error their action is expected to fail with.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnvFile,
}

var envFileFlag string

// loadEnvFile loads GWTSPEC_* settings from a dotenv file. Variables that
// are already set win over the file.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	if envFileFlag == "" {
		return nil
	}
	if err := godotenv.Load(envFileFlag); err != nil {
		return &exitError{code: ExitConfigError, err: fmt.Errorf("loading env file: %w", err)}
	}
	return nil
}

// exitError carries a process exit code out of a command. A nil err means
// the command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the CLI over the cases in reg and exits the process. The
// registry is frozen first.
func Execute(reg *suite.Registry, v, bt string) {
	version = v
	buildTime = bt
	os.Exit(execute(reg, os.Args[1:]))
}

func execute(reg *suite.Registry, args []string) int {
	reg.Freeze()
	registry = reg

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", getEnvString("GWTSPEC_ENV_FILE", ""), "Path to .env file with GWTSPEC_* settings (env: GWTSPEC_ENV_FILE)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
