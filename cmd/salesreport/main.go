package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopspring/decimal"

	"github.com/VRaz104/Business-Reporting-Tool/internal/config"
	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
	"github.com/VRaz104/Business-Reporting-Tool/internal/operations"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one report and returns the process exit code. The console
// summary goes to stdout; logs and diagnostics go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("salesreport", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to the JSON or YAML config file (searched in the working directory when empty)")
	inputPath := flags.String("input", "", "input CSV file, overrides input_path")
	outputDir := flags.String("out", "", "output directory, overrides output_directory")
	dryRun := flags.Bool("dry-run", false, "load and aggregate, print the summary, write nothing")
	showVersion := flags.Bool("version", false, "print version information and exit")

	if err := flags.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return errors.ExitOK
		}
		return errors.ExitConfig
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return errors.ExitOK
	}

	startedAt := time.Now()

	cfg, err := config.Load(*configPath, config.Overrides{
		InputPath:       *inputPath,
		OutputDirectory: *outputDir,
	})
	if err != nil {
		return fail(stderr, err)
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return fail(stderr, err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fail(stderr, err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return fail(stderr, errors.NewStorageError("failed to initialize logging", err))
	}
	defer logger.Close()

	ctx := infrastructure.EnsureRunID(context.Background())
	runID := infrastructure.GetRunID(ctx)

	logger.InfoContext(ctx, "Starting sales report",
		slog.String("version", contracts.Version),
		slog.Bool("dry_run", *dryRun))
	paths.LogPathResolution(logger.Logger)

	otelCfg := infrastructure.OTelConfigFromTelemetry(cfg.Telemetry)
	otelCfg.TraceFile = paths.TraceFile
	otelCfg.TraceWriter = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger.Logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return fail(stderr, err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return fail(stderr, err)
	}

	manager, err := operations.NewReportPipeline(cfg, logger.Logger, tracer)
	if err != nil {
		return fail(stderr, err)
	}

	state := operations.NewRunState(cfg, paths, runID, startedAt, *dryRun)
	result, runErr := manager.Execute(ctx, state)

	if paths.MetricsTextfile != "" {
		if err := providers.WriteMetricsTextfile(paths.MetricsTextfile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics textfile",
				slog.String("path", paths.MetricsTextfile),
				slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		return fail(stderr, runErr)
	}

	printSummary(stdout, result)
	return errors.ExitOK
}

// fail prints a one-line diagnostic for err and returns its exit code
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "%s: %v\n", errorClass(err), err)
	return errors.ExitCode(err)
}

// errorClass names the error class shown to the operator
func errorClass(err error) string {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return "error"
	}

	class := "error"
	switch appErr.Type {
	case errors.ErrTypeConfig:
		class = "configuration error"
	case errors.ErrTypeInput, errors.ErrTypeParsing, errors.ErrTypeValidation:
		class = "input error"
	case errors.ErrTypeStorage:
		class = "output error"
	}
	if stage, ok := appErr.Context["stage"].(string); ok {
		class = fmt.Sprintf("%s (%s)", class, stage)
	}
	return class
}

// printSummary writes the business performance summary and the saved paths
func printSummary(w io.Writer, result *operations.RunResult) {
	p := message.NewPrinter(language.English)
	summary := result.Summary

	p.Fprintln(w, "=== BUSINESS PERFORMANCE SUMMARY ===")
	p.Fprintf(w, "%-18s %s\n", "Total Revenue:", formatAmount(summary.TotalRevenue))
	p.Fprintf(w, "%-18s %s\n", "Total Cost:", formatAmount(summary.TotalCost))
	p.Fprintf(w, "%-18s %s\n", "Total Profit:", formatAmount(summary.TotalProfit))
	if summary.MarginDefined {
		p.Fprintf(w, "%-18s %s%%\n", "Profit Margin:", summary.MarginPercent().StringFixed(2))
	} else {
		p.Fprintf(w, "%-18s %s%% (no revenue)\n", "Profit Margin:", summary.MarginPercent().StringFixed(2))
	}
	p.Fprintf(w, "%-18s %d (skipped: %d)\n", "Records:", result.Records, len(result.Skipped))
	p.Fprintf(w, "%-18s %d\n", "Days:", len(result.Series))

	if result.DryRun {
		p.Fprintln(w, "Dry run: no files written")
		return
	}

	p.Fprintln(w)
	for _, line := range []struct {
		label string
		kind  string
	}{
		{"Summary saved to:", operations.ArtifactSummary},
		{"Chart saved to:", operations.ArtifactChart},
		{"Series saved to:", operations.ArtifactDailySeries},
		{"Workbook saved to:", operations.ArtifactWorkbook},
	} {
		if path := result.ArtifactPath(line.kind); path != "" {
			p.Fprintf(w, "%-18s %s\n", line.label, path)
		}
	}
}

// formatAmount renders d rounded to cents with comma thousands separators.
// Grouping works on the exact decimal string so large totals keep every digit.
func formatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(cents)
	return b.String()
}
