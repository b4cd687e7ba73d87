package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/db"
	"github.com/diewo77/go-quotations/internal/export"
	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/numeric"
	"github.com/diewo77/go-quotations/internal/pdf"
	"github.com/diewo77/go-quotations/internal/script"
	"github.com/diewo77/go-quotations/internal/services"
	"github.com/diewo77/go-quotations/internal/syncengine"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type runOptions struct {
	outDir  string
	pdf     bool
	xlsx    bool
	archive bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Apply a YAML event script and write the resulting quotations",
	Long: `run builds a session from the script's companies (or the configured
ones), applies its events in order and prints every rejected event and the
final totals of each quotation.

With --pdf and --xlsx the documents are written to --out. With --archive the
final snapshots are stored in the configured database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScript(cmd.Context(), cmd.OutOrStdout(), args[0], runOpts, config.Load())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runOpts.outDir, "out", ".", "Directory for generated documents")
	runCmd.Flags().BoolVar(&runOpts.pdf, "pdf", false, "Write one PDF per quotation")
	runCmd.Flags().BoolVar(&runOpts.xlsx, "xlsx", false, "Write a workbook with one sheet per quotation")
	runCmd.Flags().BoolVar(&runOpts.archive, "archive", false, "Archive the final quotations in the database")
}

func runScript(ctx context.Context, out io.Writer, path string, opts runOptions, cfg *config.Config) error {
	s, err := script.Load(path)
	if err != nil {
		return err
	}
	engine := syncengine.New(syncengine.Options(cfg.Quotation)...)
	st, steps, err := script.Run(engine, s, cfg.Quotation)
	if err != nil {
		return err
	}

	for _, step := range steps {
		if step.Violations.Empty() {
			continue
		}
		fmt.Fprintf(out, "event %d (%s) rejected: %s\n", step.Index, step.Kind, step.Violations)
	}
	fmt.Fprintf(out, "%d events applied\n", len(steps))
	for _, q := range st.Quotations() {
		fmt.Fprintf(out, "%-12s %-14s subtotal %14s  tax %12s  total %14s\n", q.ID, q.Number,
			numeric.FormatIndian(q.Totals.Subtotal, 2),
			numeric.FormatIndian(q.Totals.TaxAmount, 2),
			numeric.FormatIndian(q.Totals.GrandTotal, 2))
		fmt.Fprintf(out, "%-12s %s\n", "", q.Totals.AmountInWords)
	}

	if opts.pdf || opts.xlsx {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if opts.pdf {
		for _, q := range st.Quotations() {
			data, err := pdf.Render(q)
			if err != nil {
				return fmt.Errorf("render %s: %w", q.ID, err)
			}
			if err := writeFile(out, filepath.Join(opts.outDir, documentName(q)+".pdf"), data); err != nil {
				return err
			}
		}
	}
	if opts.xlsx {
		data, err := export.Workbook(st.Quotations())
		if err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		if err := writeFile(out, filepath.Join(opts.outDir, "quotations.xlsx"), data); err != nil {
			return err
		}
	}
	if opts.archive {
		conn, err := db.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.Migrate(conn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		sessionID := uuid.NewString()
		recs, err := services.NewQuotationArchive(conn).SaveAll(ctx, sessionID, st.Quotations())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "archived %d quotations as session %s\n", len(recs), sessionID)
	}
	return nil
}

func writeFile(out io.Writer, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func documentName(q models.Quotation) string {
	name := q.Number
	if name == "" {
		name = string(q.ID)
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
}
