// Command example registers calculator cases and runs them with the gwtspec
// CLI.
//
//	go run ./apps/example run --verbose
//	go run ./apps/example run --mocks --output json
package main

import (
	"github.com/abdul-hamid-achik/gwtspec/apps/cli/cmd"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	reg := suite.NewRegistry()
	reg.MustRegister(cases()...)
	cmd.Execute(reg, version, buildTime)
}
