// Package cmd implements the gwtspec CLI commands using Cobra.
//
// The CLI runs cases compiled into the calling program. A main package
// registers its cases on a suite.Registry and hands it to Execute:
//
//	func main() {
//		reg := suite.NewRegistry()
//		reg.MustRegister(cases...)
//		cmd.Execute(reg, version, buildTime)
//	}
//
// Available commands:
//   - run: Execute the registered cases
//   - list: Display registered cases with their subjects and status
//   - validate: Check case structure without executing steps
//   - init: Write a gwtspec.yaml with the default settings
//   - version: Show version information
//
// Run flags fall back to GWTSPEC_* environment variables, then to the
// config file, then to the defaults.
package cmd
