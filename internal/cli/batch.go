package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/qfilter/internal/filters"
	"github.com/ppiankov/qfilter/internal/worker"
)

// BatchReport is printed by the batch command
type BatchReport struct {
	Total    int                   `json:"total" yaml:"total"`
	Failures int                   `json:"failures" yaml:"failures"`
	Results  []*worker.QueryResult `json:"results" yaml:"results"`
	Errors   map[int]string        `json:"errors,omitempty" yaml:"errors,omitempty"` // Keyed by result index
}

func newBatchCmd(o *options) *cobra.Command {
	var (
		opName       string
		typeName     string
		concurrency  int
		batchTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Resolve or rewrite many queries from a file in parallel",
		Long: `Batch reads queries from a file (one per line, blank lines and lines
starting with # are skipped) and processes them concurrently:
- resolve: report each query's active result type
- set-type: rewrite each query to --type

Results are printed in input order.

Example:
  qfilter batch queries.txt
  qfilter batch queries.txt --op set-type --type commits --concurrency 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := worker.ParseOp(opName)
			if err != nil {
				return err
			}
			var typ filters.SearchFilterType
			if op == worker.OpSetType {
				if typeName == "" {
					return fmt.Errorf("--type is required for %s", worker.OpSetType)
				}
				if typ, err = filters.ParseType(typeName); err != nil {
					return err
				}
			}

			workers := o.cfg.Batch.Workers
			if cmd.Flags().Changed("concurrency") {
				workers = concurrency
			}
			limit := o.cfg.Batch.Timeout
			if cmd.Flags().Changed("timeout") {
				limit = batchTimeout
			}

			ctx := cmd.Context()
			if limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			o.logger.Debug("batch starting",
				zap.String("file", args[0]),
				zap.String("op", string(op)),
				zap.Int("workers", workers))

			start := time.Now()
			processor := worker.NewBatchProcessor(o.editor, workers)
			results, err := processor.ProcessFile(ctx, args[0], op, typ)
			if err != nil {
				return fmt.Errorf("process file: %w", err)
			}

			report := BatchReport{Total: len(results), Results: results}
			for _, r := range results {
				if r.Error != nil {
					report.Failures++
					if report.Errors == nil {
						report.Errors = make(map[int]string)
					}
					report.Errors[r.Index] = r.Error.Error()
				}
			}

			o.logger.Debug("batch complete",
				zap.Int("total", report.Total),
				zap.Int("failures", report.Failures),
				zap.Duration("elapsed", time.Since(start)))

			return render(cmd.OutOrStdout(), o.cfg.Output.Format, report, func(w io.Writer) error {
				return printBatch(w, cmd.ErrOrStderr(), report)
			})
		},
	}
	cmd.Flags().StringVar(&opName, "op", string(worker.OpResolve), "operation: resolve or set-type")
	cmd.Flags().StringVar(&typeName, "type", "", "target result type for set-type")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	cmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total timeout for batch processing (default from config)")
	return cmd
}

// printBatch writes one "type<TAB>query" line per result; failures go to errw
func printBatch(w, errw io.Writer, report BatchReport) error {
	for _, r := range report.Results {
		if r.Error != nil {
			fmt.Fprintf(errw, "✗ %s: %v\n", r.Query, r.Error)
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Type, r.Output); err != nil {
			return err
		}
	}
	if report.Failures > 0 {
		fmt.Fprintf(errw, "%d of %d queries failed\n", report.Failures, report.Total)
	}
	return nil
}
