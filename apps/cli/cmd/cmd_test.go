package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/gwtspec/packages/assertions"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/config"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type calc struct {
	result int
}

func newCalc() *calc { return &calc{} }

func add(a, b int) testcase.StepFunc {
	return testcase.Do(func(c *calc) { c.result = a + b })
}

func expect(want int) testcase.StepFunc {
	return testcase.Bind(func(c *calc) error {
		return assertions.That(c.result).Named("result").Equals(want)
	})
}

func passing(name string) *testcase.Node {
	return testcase.Define(name, newCalc).
		Describe("adds two numbers").
		Subject("Calculator").
		When("add", "", add(2, 3)).
		Then("five", "", 0, expect(5)).
		MustBuild()
}

func failing(name string) *testcase.Node {
	return testcase.Define(name, newCalc).
		Describe("expects the wrong sum").
		Subject("Calculator").
		When("add", "", add(2, 2)).
		Then("five", "", 0, expect(5)).
		MustBuild()
}

func invalid(name string) *testcase.Node {
	return testcase.Define(name, newCalc).
		Describe("has no then step").
		When("add", "", add(1, 1)).
		MustBuild()
}

func aborting(name string) *testcase.Node {
	return testcase.Define(name, newCalc).
		Describe("breaks in setup").
		Given("connect", "", 0, func(any) error { return errors.New("connection refused") }).
		When("add", "", add(1, 1)).
		Then("two", "", 0, expect(2)).
		MustBuild()
}

func registryOf(nodes ...*testcase.Node) *suite.Registry {
	reg := suite.NewRegistry()
	reg.MustRegister(nodes...)
	return reg
}

// run executes the CLI with fresh flag values and captured output.
func run(t *testing.T, reg *suite.Registry, args ...string) (int, string, string) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	code := execute(reg, args)
	return code, stdout.String(), stderr.String()
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		nodes []*testcase.Node
		want  int
	}{
		{name: "all pass", nodes: []*testcase.Node{passing("A"), passing("B")}, want: ExitSuccess},
		{name: "failure", nodes: []*testcase.Node{passing("A"), failing("B")}, want: ExitTestFailure},
		{name: "validation only", nodes: []*testcase.Node{passing("A"), invalid("B")}, want: ExitValidationError},
		{name: "failure beats validation", nodes: []*testcase.Node{failing("A"), invalid("B")}, want: ExitTestFailure},
		{name: "abort beats failure", nodes: []*testcase.Node{failing("A"), aborting("B")}, want: ExitAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := run(t, registryOf(tt.nodes...), "run", "--no-color")
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestRun_Console(t *testing.T) {
	code, stdout, _ := run(t, registryOf(passing("AddsNumbers"), failing("WrongSum")), "run", "--no-color")

	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, stdout, "gwtspec dev")
	assert.Contains(t, stdout, "✓ AddsNumbers (adds two numbers)")
	assert.Contains(t, stdout, "✗ WrongSum (expects the wrong sum)")
	assert.Contains(t, stdout, "result: expected 5, got 4")
	assert.Contains(t, stdout, "1 passed, 1 failed, 2 total")
}

func TestRun_Filters(t *testing.T) {
	reg := registryOf(passing("AddSmall"), passing("AddLarge"), invalid("Other"))

	code, stdout, _ := run(t, reg, "run", "--output", "json", "--name", "Add*")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, int64(2), gjson.Get(stdout, "cases.#").Int())

	code, stdout, _ = run(t, reg, "run", "-o", "json", "--subjects", "Calculator, Parser")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, `["AddSmall","AddLarge"]`, gjson.Get(stdout, "cases.#.name").Raw)
}

func TestRun_NoCases(t *testing.T) {
	code, _, stderr := run(t, registryOf(passing("A")), "run", "--name", "Missing")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "no runnable cases match the filters")
}

func TestRun_UnknownOutput(t *testing.T) {
	code, _, stderr := run(t, registryOf(passing("A")), "run", "--output", "html")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, `unknown output format "html"`)
}

func TestRun_DryRun(t *testing.T) {
	code, stdout, _ := run(t, registryOf(passing("A"), failing("B")), "run", "--dry-run")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Would run: A (adds two numbers)\nWould run: B (expects the wrong sum)\n", stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gwtspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: tap\nparallel: true\nconcurrency: 2\n"), 0644))

	code, stdout, _ := run(t, registryOf(passing("A"), passing("B")), "run", "--config", path)
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "TAP version 13\n1..2\n"))

	// flags win over the file
	code, stdout, _ = run(t, registryOf(passing("A")), "run", "--config", path, "--output", "json")
	require.Equal(t, ExitSuccess, code)
	assert.True(t, gjson.Valid(stdout))
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("concurrency: 0\n"), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "schema violation", args: []string{"run", "--config", bad}, want: "invalid configuration"},
		{name: "missing file", args: []string{"run", "--config", filepath.Join(dir, "none.yaml")}, want: "reading config"},
		{name: "bad concurrency flag", args: []string{"run", "--concurrency", "0"}, want: "concurrency must be at least 1"},
		{name: "bad log level", args: []string{"run", "--log-level", "loud"}, want: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, registryOf(passing("A")), tt.args...)
			assert.Equal(t, ExitConfigError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")

	code, stdout, _ := run(t, registryOf(passing("A"), failing("B")), "run", "-o", "junit", "--output-file", path)
	require.Equal(t, ExitTestFailure, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testsuite name="Calculator" tests="2" failures="1"`)
}

func TestRun_Logging(t *testing.T) {
	code, _, stderr := run(t, registryOf(passing("A")), "run", "--log-level", "info", "--log-format", "json", "-o", "json")
	require.Equal(t, ExitSuccess, code)

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		messages = append(messages, gjson.Get(line, "msg").String())
	}
	assert.Contains(t, messages, "case finished")
	assert.Contains(t, messages, "suite finished")
}

func TestRun_Environment(t *testing.T) {
	t.Setenv("GWTSPEC_OUTPUT", "json")
	t.Setenv("GWTSPEC_NAME", "B*")

	code, stdout, _ := run(t, registryOf(passing("A"), passing("B1")), "run")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, `["B1"]`, gjson.Get(stdout, "cases.#.name").Raw)

	// a passed flag wins over the environment
	code, stdout, _ = run(t, registryOf(passing("A"), passing("B1")), "run", "--output", "tap")
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "TAP version 13\n1..1\n"))

	t.Setenv("GWTSPEC_CONCURRENCY", "many")
	code, _, stderr := run(t, registryOf(passing("B")), "run")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "GWTSPEC_CONCURRENCY")
}

func TestRun_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GWTSPEC_OUTPUT=json\nGWTSPEC_MOCKS=yes\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("GWTSPEC_OUTPUT")
		os.Unsetenv("GWTSPEC_MOCKS")
	})

	code, stdout, _ := run(t, registryOf(passing("A")), "run", "--env-file", path)
	require.Equal(t, ExitSuccess, code)
	assert.True(t, gjson.Valid(stdout))
	assert.True(t, mocksFlag)

	code, _, stderr := run(t, registryOf(passing("A")), "run", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "loading env file")
}

func TestRun_Progress(t *testing.T) {
	code, _, stderr := run(t, registryOf(passing("A"), failing("B")), "run", "--progress", "--no-color", "-o", "json")
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, stderr, "Running cases:")
	assert.Contains(t, stderr, "failed: 1]")
}

func TestList(t *testing.T) {
	base := testcase.Define("CalculatorBase", newCalc).
		When("add", "", add(1, 1)).
		MustBuild()
	child := testcase.Define("AddsOne", newCalc, testcase.Extends(base)).
		Describe("inherits add").
		Subject("Calculator").
		Then("two", "", 0, expect(2)).
		MustBuild()
	skipped := testcase.Define("Later", newCalc).
		Describe("not yet").
		Ignore("waiting on rounding fix").
		MustBuild()

	code, stdout, _ := run(t, registryOf(base, child, skipped), "list")
	require.Equal(t, ExitSuccess, code)

	assert.Contains(t, stdout, "  - CalculatorBase\n    base case, not runnable\n")
	assert.Contains(t, stdout, "  - AddsOne (inherits add)\n    extends: CalculatorBase\n    subjects: [Calculator]\n")
	assert.Contains(t, stdout, "    ignored: waiting on rounding fix\n")

	code, stdout, _ = run(t, registryOf(base, child, skipped), "list", "--name", "Adds*")
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, stdout, "Later")
}

func TestValidate(t *testing.T) {
	code, stdout, _ := run(t, registryOf(passing("A")), "validate")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Valid: A\n", stdout)

	code, _, stderr := run(t, registryOf(passing("A"), invalid("B")), "validate")
	assert.Equal(t, ExitValidationError, code)
	assert.Contains(t, stderr, "Error in B: there must be at least one @Then step or one @ThenThrow step")
	assert.Contains(t, stderr, "validation failed")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	code, stdout, _ := run(t, registryOf(), "init", dir)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Created: "+filepath.Join(dir, "gwtspec.yaml"))

	cfg, err := config.LoadConfig(filepath.Join(dir, "gwtspec.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())

	code, _, stderr := run(t, registryOf(), "init", dir)
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "use --force to overwrite")

	code, _, _ = run(t, registryOf(), "init", dir, "--force")
	assert.Equal(t, ExitSuccess, code)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, registryOf(), "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "gwtspec version dev")
}

func TestCompletion(t *testing.T) {
	code, stdout, _ := run(t, registryOf(), "completion", "bash")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "gwtspec")
}

func TestExecute_FreezesRegistry(t *testing.T) {
	reg := registryOf(passing("A"))
	run(t, reg, "version")
	assert.True(t, reg.IsFrozen())
	assert.ErrorIs(t, reg.Register(passing("B")), suite.ErrFrozen)
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "exit status 4", (&exitError{code: ExitAbort}).Error())

	cause := errors.New("boom")
	err := &exitError{code: ExitConfigError, err: cause}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
