package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/outcheck/pkg/config"
	"github.com/ccollicutt/outcheck/pkg/emitter"
	"github.com/ccollicutt/outcheck/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a run configuration file",
		Long: `Validate an outcheck run configuration without scanning.

Checks:
  - YAML syntax
  - log_file is set
  - dialect is mentat, patran, 1 or 2
  - domains is a count or auto
  - webhook URLs and triggers
  - domain log files exist (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Load canonicalized the dialect, so this cannot fail.
	dialect, err := emitter.NewDialect(cfg.Dialect)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Log file:  %s\n", cfg.LogFile)
	fmt.Fprintf(out, "  Dialect:   %s\n", dialect.Name())
	fmt.Fprintf(out, "  Domains:   %s\n", cfg.Domains)
	if cfg.ScanOnly {
		fmt.Fprintf(out, "  Script:    none (scan only)\n")
	} else {
		fmt.Fprintf(out, "  Script:    %s\n", cfg.ScriptPath(dialect.Extension()))
	}
	if cfg.Output.Report != "" {
		fmt.Fprintf(out, "  Report:    %s\n", cfg.Output.Report)
	}
	fmt.Fprintf(out, "  Webhooks:  %d\n", len(cfg.Webhooks))

	domains := int(cfg.Domains)
	if cfg.Domains == config.DomainsAuto {
		domains = parser.CountDomainFiles(cfg.LogFile)
	}
	files, err := parser.DomainFiles(cfg.LogFile, domains)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: %v\n", err)
		return nil
	}

	var missing []string
	for _, f := range files {
		if !fileExists(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(out, "\nWarning: %d of %d log file(s) not found:\n", len(missing), len(files))
		for _, f := range missing {
			fmt.Fprintf(out, "  - %s\n", f)
		}
		return nil
	}

	fmt.Fprintf(out, "\nLog files found: %d\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  - %s\n", f)
	}
	return nil
}
