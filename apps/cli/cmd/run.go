package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/config"
	"github.com/abdul-hamid-achik/gwtspec/packages/logging"
	"github.com/abdul-hamid-achik/gwtspec/packages/output"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the registered cases",
	Long: `Run the cases registered by this program.

Examples:
  gwtspec run
  gwtspec run --name "Divide*"
  gwtspec run --subjects Calculator,Parser
  gwtspec run --parallel --concurrency 8
  gwtspec run --mocks --output junit --output-file report.xml
  gwtspec run --config ci.gwtspec.yaml --log-level debug --log-format json`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

var errNoCases = errors.New("no runnable cases match the filters")

var (
	nameFlag        string
	subjectsFlag    string
	outputFlag      string
	outputFileFlag  string
	verboseFlag     bool
	noColorFlag     bool
	parallelFlag    bool
	concurrencyFlag int
	rateFlag        float64
	bailFlag        bool
	mocksFlag       bool
	dryRunFlag      bool
	progressFlag    bool
	configFlag      string
	logLevelFlag    string
	logFormatFlag   string
)

func init() {
	// Selection flags
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("GWTSPEC_CONFIG", ""), "Path to config file (env: GWTSPEC_CONFIG)")
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", getEnvString("GWTSPEC_NAME", ""), "Run only cases matching name pattern (env: GWTSPEC_NAME)")
	runCmd.Flags().StringVarP(&subjectsFlag, "subjects", "s", getEnvString("GWTSPEC_SUBJECTS", ""), "Run only cases with any of these subjects (comma-separated) (env: GWTSPEC_SUBJECTS)")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("GWTSPEC_VERBOSE", false), "Show every step (env: GWTSPEC_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("GWTSPEC_NO_COLOR", false), "Disable colored output (env: GWTSPEC_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("GWTSPEC_OUTPUT", config.DefaultOutput), "Output format: console, json, junit, tap (env: GWTSPEC_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("GWTSPEC_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: GWTSPEC_OUTPUT_FILE)")
	runCmd.Flags().StringVar(&logLevelFlag, "log-level", getEnvString("GWTSPEC_LOG_LEVEL", config.DefaultLogLevel), "Log level: debug, info, warn, error (env: GWTSPEC_LOG_LEVEL)")
	runCmd.Flags().BoolVar(&progressFlag, "progress", getEnvBool("GWTSPEC_PROGRESS", false), "Draw a progress bar on stderr (env: GWTSPEC_PROGRESS)")
	runCmd.Flags().StringVar(&logFormatFlag, "log-format", getEnvString("GWTSPEC_LOG_FORMAT", config.DefaultLogFormat), "Log format: text, json (env: GWTSPEC_LOG_FORMAT)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("GWTSPEC_BAIL", false), "Stop starting cases after the first failure (env: GWTSPEC_BAIL)")
	runCmd.Flags().BoolVarP(&parallelFlag, "parallel", "p", getEnvBool("GWTSPEC_PARALLEL", false), "Run cases in parallel (env: GWTSPEC_PARALLEL)")
	runCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("GWTSPEC_CONCURRENCY", config.DefaultConcurrency), "Number of concurrent cases when running in parallel (env: GWTSPEC_CONCURRENCY)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", getEnvFloat("GWTSPEC_RATE", 0), "Maximum case starts per second, 0 is unlimited (env: GWTSPEC_RATE)")
	runCmd.Flags().BoolVar(&mocksFlag, "mocks", getEnvBool("GWTSPEC_MOCKS", false), "Build generated properties from their mock providers (env: GWTSPEC_MOCKS)")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would run without executing")
}

// flagEnv maps run flags to the environment variables they fall back to.
var flagEnv = map[string]string{
	"config":      "GWTSPEC_CONFIG",
	"name":        "GWTSPEC_NAME",
	"subjects":    "GWTSPEC_SUBJECTS",
	"verbose":     "GWTSPEC_VERBOSE",
	"no-color":    "GWTSPEC_NO_COLOR",
	"output":      "GWTSPEC_OUTPUT",
	"output-file": "GWTSPEC_OUTPUT_FILE",
	"log-level":   "GWTSPEC_LOG_LEVEL",
	"log-format":  "GWTSPEC_LOG_FORMAT",
	"progress":    "GWTSPEC_PROGRESS",
	"bail":        "GWTSPEC_BAIL",
	"parallel":    "GWTSPEC_PARALLEL",
	"concurrency": "GWTSPEC_CONCURRENCY",
	"rate":        "GWTSPEC_RATE",
	"mocks":       "GWTSPEC_MOCKS",
}

// applyEnv refreshes flags that were not passed from the environment, which
// may have changed since start-up by loading an env file.
func applyEnv(cmd *cobra.Command) error {
	for name, env := range flagEnv {
		f := cmd.Flags().Lookup(name)
		val := os.Getenv(env)
		if f == nil || f.Changed || val == "" {
			continue
		}
		if f.Value.Type() == "bool" {
			val = strconv.FormatBool(getEnvBool(env, false))
		}
		if err := f.Value.Set(val); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", config.ErrInvalidConfig, env, val, err)
		}
	}
	return nil
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// resolveConfig layers the run flags over the config file. A flag counts
// when it was passed or its environment variable is set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	set := func(name string) bool {
		return cmd.Flags().Changed(name) || os.Getenv(flagEnv[name]) != ""
	}

	flags := &config.Config{}
	if set("name") {
		flags.Name = nameFlag
	}
	if set("subjects") {
		flags.Subjects = splitList(subjectsFlag)
	}
	if set("output") {
		flags.Output = outputFlag
	}
	if set("output-file") {
		flags.OutputFile = outputFileFlag
	}
	if set("log-level") {
		flags.LogLevel = logLevelFlag
	}
	if set("log-format") {
		flags.LogFormat = logFormatFlag
	}
	if set("concurrency") {
		if concurrencyFlag < 1 {
			return nil, fmt.Errorf("%w: concurrency must be at least 1, got %d", config.ErrInvalidConfig, concurrencyFlag)
		}
		flags.Concurrency = concurrencyFlag
	}
	if set("rate") {
		if rateFlag < 0 {
			return nil, fmt.Errorf("%w: rate must not be negative, got %v", config.ErrInvalidConfig, rateFlag)
		}
		flags.Rate = rateFlag
	}
	if set("verbose") {
		flags.Verbose = config.BoolPtr(verboseFlag)
	}
	if set("no-color") {
		flags.NoColor = config.BoolPtr(noColorFlag)
	}
	if set("parallel") {
		flags.Parallel = config.BoolPtr(parallelFlag)
	}
	if set("bail") {
		flags.Bail = config.BoolPtr(bailFlag)
	}
	if set("mocks") {
		flags.UseMocks = config.BoolPtr(mocksFlag)
	}

	return fileConfig.Merge(flags), nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	if err := applyEnv(cmd); err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)

	// Setup output writer
	var outWriter io.Writer = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return &exitError{code: ExitConfigError, err: fmt.Errorf("cannot create output file: %w", err)}
		}
		defer f.Close()
		outWriter = f
	}

	formatter, err := output.New(cfg.Output, output.Options{
		Writer:  outWriter,
		Verbose: cfg.GetVerbose(),
		NoColor: cfg.GetNoColor(),
	})
	if err != nil {
		return &exitError{code: ExitUsageError, err: err}
	}

	nodes := registry.Select(suite.Filter{Name: cfg.Name, Subjects: cfg.Subjects})
	if len(nodes) == 0 {
		return &exitError{code: ExitUsageError, err: errNoCases}
	}

	if dryRunFlag {
		for _, node := range nodes {
			fmt.Fprintf(cmd.OutOrStdout(), "Would run: %s\n", node)
		}
		return nil
	}

	formatter.FormatHeader(version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []suite.Option{suite.WithLogger(logger)}
	var progress *output.Progress
	if progressFlag {
		progress = output.NewProgress(cmd.ErrOrStderr(), len(nodes))
		opts = append(opts, suite.WithObserver(progress.Observe))
	}

	orchestrator := suite.NewOrchestrator(append(opts,
		suite.WithConfig(suite.Config{
			Parallel:    cfg.GetParallel(),
			Concurrency: cfg.Concurrency,
			Bail:        cfg.GetBail(),
			Rate:        cfg.Rate,
			UseMocks:    cfg.GetUseMocks(),
		}),
	)...)

	result, runErr := orchestrator.RunAll(ctx, nodes)
	if progress != nil {
		_ = progress.Finish()
	}
	for _, l := range result.Ledgers {
		formatter.FormatLedger(l)
	}
	if runErr != nil {
		formatter.FormatError(runErr)
	}

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(result.Summary); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	return exitFor(result.Summary, runErr)
}

// exitFor maps a finished run to its exit code. Aborts win over failures,
// failures over validation errors.
func exitFor(s *suite.Summary, runErr error) error {
	switch {
	case runErr != nil || s.Aborted > 0:
		return &exitError{code: ExitAbort}
	case s.Failed > 0:
		return &exitError{code: ExitTestFailure}
	case s.Invalid > 0:
		return &exitError{code: ExitValidationError}
	}
	return nil
}
