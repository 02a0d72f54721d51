package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// Reporter renders the operator-facing report: one line per record so
// "nothing to do", "fixed automatically" and "needs you" are visible at
// a glance, then warnings, blocking errors, and the verdict.
type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, report *domain.ReconciliationReport) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(r.writer, "Reconciliation Report")
	fmt.Fprintln(r.writer, "=====================")
	if report.DryRun {
		fmt.Fprintln(r.writer, yellow("DRY RUN — no state mutations were performed"))
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Status\tService\tAction\tDetails")
	fmt.Fprintln(tw, "------\t-------\t------\t-------")

	for _, record := range report.Records {
		var status string
		switch {
		case record.Class == domain.ClassUnresolvableConflict:
			status = red("[CONFLICT]")
		case record.Outcome == domain.OutcomeFailed:
			status = red("[FAILED]")
		case record.Outcome == domain.OutcomeImported, record.Outcome == domain.OutcomeReimported:
			status = cyan("[FIXED]")
		case record.Outcome == domain.OutcomeSkipped:
			status = yellow("[SKIPPED]")
		case record.Class == domain.ClassInSync:
			status = green("[OK]")
		default:
			status = yellow("[" + record.Class.String() + "]")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, record.Key, actionLabel(record), record.Detail)
	}
	tw.Flush()

	if len(report.Warnings) > 0 {
		fmt.Fprintln(r.writer, "\nWarnings:")
		for _, warning := range report.Warnings {
			if warning.Key != "" {
				fmt.Fprintf(r.writer, "  %s %s: %s\n", yellow("[WARN]"), warning.Key, warning.Detail)
			} else {
				fmt.Fprintf(r.writer, "  %s %s\n", yellow("[WARN]"), warning.Detail)
			}
		}
	}

	if len(report.BlockingErrors) > 0 {
		fmt.Fprintln(r.writer, "\nBlocking errors:")
		for _, blocking := range report.BlockingErrors {
			if blocking.Key != "" {
				fmt.Fprintf(r.writer, "  %s %s (%s): %s\n", red("[BLOCK]"), blocking.Key, blocking.Code, blocking.Reason)
			} else {
				fmt.Fprintf(r.writer, "  %s (%s): %s\n", red("[BLOCK]"), blocking.Code, blocking.Reason)
			}
		}
	}

	counts := report.CountByClass()
	fmt.Fprintln(r.writer, "\nSummary:")
	fmt.Fprintf(r.writer, "  In sync: %d\n", counts[domain.ClassInSync])
	fmt.Fprintf(r.writer, "  To be created: %d\n", counts[domain.ClassMissingEverywhere])
	fmt.Fprintf(r.writer, "  Imported: %d\n", report.ImportedCount)
	fmt.Fprintf(r.writer, "  Blocking errors: %d\n", len(report.BlockingErrors))
	fmt.Fprintf(r.writer, "  Warnings: %d\n", len(report.Warnings))

	verdict := green(string(domain.VerdictPass))
	if report.Verdict == domain.VerdictFail {
		verdict = red(string(domain.VerdictFail))
	}
	fmt.Fprintf(r.writer, "\nVerdict: %s\n", verdict)
	return nil
}

func (r *Reporter) ReportCleanup(ctx context.Context, report *domain.CleanupReport) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(r.writer, "Targeted Cleanup Report")
	fmt.Fprintln(r.writer, "=======================")
	if report.DryRun {
		fmt.Fprintln(r.writer, yellow("DRY RUN — no state mutations were performed"))
	}
	if report.Candidates == 0 {
		fmt.Fprintln(r.writer, "No state entries added since the snapshot; nothing to clean up.")
		return nil
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Disposition\tAddress\tReason")
	fmt.Fprintln(tw, "-----------\t-------\t------")
	for _, item := range report.Items {
		var label string
		switch item.Disposition {
		case domain.CleanupRemoved:
			label = green("[REMOVED]")
		case domain.CleanupSkipped:
			label = yellow("[SKIPPED]")
		default:
			label = red("[RETAINED]")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", label, item.Entry.Address, item.Reason)
	}
	tw.Flush()

	counts := report.CountByDisposition()
	fmt.Fprintf(r.writer, "\nExamined %d entries: %d removed, %d retained for manual review.\n",
		report.Candidates, counts[domain.CleanupRemoved], counts[domain.CleanupRetained])
	return nil
}

func actionLabel(record domain.DriftRecord) string {
	if record.Action == domain.ActionNone {
		return "-"
	}
	return fmt.Sprintf("%s/%s", record.Action, record.Outcome)
}
