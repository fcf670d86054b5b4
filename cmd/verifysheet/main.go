// Command verifysheet verifies the claims listed in an Excel workbook and
// writes the verdicts to a new workbook, without a database or server.
//
// Usage: go run ./cmd/verifysheet --in claims.xlsx --out verdicts.xlsx
package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"figcheck/internal/config"
	"figcheck/internal/logging"
	"figcheck/internal/service"
	"figcheck/internal/verify"
)

type options struct {
	in                string
	out               string
	sheet             string
	relativeTolerance string
	pointTolerance    string
	workers           int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "verifysheet:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := verify.DefaultTolerance()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "verifysheet",
		Short: "Verify financial claims listed in an Excel workbook",
		Long: `verifysheet reads claims from a worksheet whose header row names the
columns reported_value, operation and operands (separated by ";"), plus the
optional columns claim_id, is_percentage, page, item_path and commentary.

Each claim is recomputed and the verdicts are written to a "Results" sheet,
with verdict counts on a "Summary" sheet.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "input workbook (.xlsx)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "verdicts.xlsx", "output workbook")
	cmd.Flags().StringVarP(&opts.sheet, "sheet", "s", "", "sheet holding the claims (default: first sheet)")
	cmd.Flags().StringVar(&opts.relativeTolerance, "relative-tolerance", defaults.Relative.String(), "relative tolerance for amounts")
	cmd.Flags().StringVar(&opts.pointTolerance, "point-tolerance", defaults.PercentagePoints.String(), "tolerance in percentage points")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 8, "concurrent verification workers")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func run(opts *options) error {
	logger, err := logging.New(config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tolerance, err := parseTolerance(opts.relativeTolerance, opts.pointTolerance)
	if err != nil {
		return err
	}

	in, err := excelize.OpenFile(opts.in)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = in.Close() }()

	claims, err := readClaims(in, opts.sheet)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims found in %s", opts.in)
	}
	logger.Info("claims loaded", zap.String("file", opts.in), zap.Int("claims", len(claims)))

	batch := verify.NewBatchVerifier(verify.NewVerifier(tolerance), opts.workers)
	results, summary := service.VerifyClaims(batch, claims)

	out, err := buildReport(results, summary)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if err := out.SaveAs(opts.out); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	logger.Info("verdicts written",
		zap.String("file", opts.out),
		zap.Int("confirmed", summary.Confirmed),
		zap.Int("minor_discrepancy", summary.MinorDiscrepancy),
		zap.Int("contradicted", summary.Contradicted),
		zap.Int("unverifiable", summary.Unverifiable))
	return nil
}

func parseTolerance(relative, points string) (verify.Tolerance, error) {
	rel, err := decimal.NewFromString(relative)
	if err != nil || rel.IsNegative() {
		return verify.Tolerance{}, fmt.Errorf("invalid relative tolerance %q", relative)
	}
	pts, err := decimal.NewFromString(points)
	if err != nil || pts.IsNegative() {
		return verify.Tolerance{}, fmt.Errorf("invalid point tolerance %q", points)
	}
	return verify.Tolerance{Relative: rel, PercentagePoints: pts}, nil
}
