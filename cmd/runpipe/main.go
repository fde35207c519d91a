package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ormasoftchile/runpipe/pkg/logging"
	"github.com/ormasoftchile/runpipe/pkg/pipeline"
	"github.com/ormasoftchile/runpipe/pkg/prompt"
	"github.com/ormasoftchile/runpipe/pkg/runtime"
	"github.com/ormasoftchile/runpipe/pkg/schema"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var abort *runtime.AbortError
		if errors.As(err, &abort) {
			os.Exit(abort.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runpipe",
	Short: "Declarative pipeline-step executor",
	Long:  "runpipe — executes ordered pipelines of local, remote, interpreted and manual command steps under operator control.",
}

// --- exec ---

var (
	execInteractive bool
	execForce       bool
	execVars        []string
	execConstants   string
	execImportRoot  string
	execLogLevel    string
	execLogFormat   string
)

var execCmd = &cobra.Command{
	Use:   "exec [pipeline.yaml]",
	Short: "Execute a pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(execLogFormat, execLogLevel); err != nil {
		return err
	}

	p, errs := schema.ValidateFile(args[0])
	if len(errs) == 0 {
		errs = pipeline.Lint(p)
	}
	if reportValidation(errs) {
		return fmt.Errorf("validation failed")
	}

	constants := map[string]string{}
	if execConstants != "" {
		var err error
		constants, err = godotenv.Read(execConstants)
		if err != nil {
			return fmt.Errorf("read constants file: %w", err)
		}
	}

	state := pipeline.NewContext(p, constants)
	if err := applyVarFlags(state.Variables, execVars); err != nil {
		return err
	}

	log := slog.Default()
	eng := runtime.NewEngine(p, state, execImportRoot, prompt.Readline{}, log)
	eng.Interactive = execInteractive
	eng.Force = execForce

	// Past this point failures are runtime outcomes, not usage errors.
	cmd.SilenceUsage = true

	if err := eng.Execute(cmd.Context()); err != nil {
		return err
	}
	logging.Notice(log, fmt.Sprintf("pipeline %q completed (%d steps)", p.Name, len(p.Pipeline)))
	return nil
}

// applyVarFlags overlays --var name=value pairs onto the run's variables.
func applyVarFlags(vars map[string]string, flags []string) error {
	for _, kv := range flags {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid --var %q, expected name=value", kv)
		}
		vars[name] = value
	}
	return nil
}

// reportValidation prints validation findings and reports whether any of
// them is a hard error.
func reportValidation(errs []*schema.ValidationError) bool {
	failed := false
	for _, e := range errs {
		if e.Severity == "warning" {
			fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", e.Phase, e.Message)
			continue
		}
		failed = true
		fmt.Fprintf(os.Stderr, "  ✗ [%s] %s", e.Phase, e.Message)
		if e.Path != "" {
			fmt.Fprintf(os.Stderr, " (at %s)", e.Path)
		}
		fmt.Fprintln(os.Stderr)
	}
	return failed
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [pipeline.yaml]",
	Short: "Validate a pipeline YAML file against the schema and key grammar",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, errs := schema.ValidateFile(args[0])
	if len(errs) == 0 {
		errs = pipeline.Lint(p)
	}
	if reportValidation(errs) {
		return fmt.Errorf("validation failed")
	}
	fmt.Printf("✓ %s is valid (%d steps)\n", p.Name, len(p.Pipeline))
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the pipeline JSON Schema (Draft 2020-12)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateJSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("runpipe %s (%s)\n", version, commit)
	},
}

func init() {
	execCmd.Flags().BoolVar(&execInteractive, "interactive", false, "confirm every step, not only manual ones")
	execCmd.Flags().BoolVar(&execForce, "force", false, "continue past failing steps without prompting")
	execCmd.Flags().StringArrayVar(&execVars, "var", nil, "set a variable (name=value, repeatable)")
	execCmd.Flags().StringVar(&execConstants, "constants", "", "constants file in KEY=VALUE form, exposed as {const_KEY}")
	execCmd.Flags().StringVar(&execImportRoot, "import-root", ".", "directory import scripts are read from")
	execCmd.Flags().StringVar(&execLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	execCmd.Flags().StringVar(&execLogFormat, "log-format", logging.Tint, "log format (tint, text, json)")

	rootCmd.AddCommand(execCmd, validateCmd, schemaCmd, versionCmd)
}
