package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paydata/payplan/internal/config"
	"github.com/paydata/payplan/pkg/aggregate"
	"github.com/paydata/payplan/pkg/export"
	"github.com/paydata/payplan/pkg/logging"
	"github.com/paydata/payplan/pkg/payplan"
	"github.com/paydata/payplan/pkg/snapshot"
)

var rootCmd = &cobra.Command{
	Use:           "payplan",
	Short:         "payplan fetches the public salary schedule and regenerates its exports.",
	Long: `payplan produces a complete snapshot of the public pay plan dataset and
derives its tabular exports. If the snapshot file already exists it is
used as-is; otherwise all pages are fetched first. The CSV and
spreadsheet artifacts are regenerated on every run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logging.Setup(logging.Config{
			Level:  logging.LogLevel(cfg.LogLevel),
			Pretty: cfg.LogPretty,
			Output: os.Stderr,
		})

		artifacts, err := run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		openArtifact(artifacts.workbook)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type artifacts struct {
	snapshot string
	csv      string
	workbook string
	records  int
}

// run executes the whole pipeline: ensure the snapshot exists (fetching
// and persisting it if absent), then regenerate the CSV and spreadsheet
// exports from it.
func run(ctx context.Context, cfg *config.Config) (artifacts, error) {
	started := time.Now()
	logger := logging.NewLogger("payplan")

	store := snapshot.NewStore(cfg.Output)
	rows, err := store.Load()
	switch {
	case errors.Is(err, snapshot.ErrNotExist):
		client := payplan.NewClient(
			payplan.WithBaseURL(cfg.BaseURL),
			payplan.WithPageSize(cfg.PageSize),
			payplan.WithMinInterval(time.Duration(cfg.MinIntervalMs)*time.Millisecond),
		)
		result, err := aggregate.New(client).Run(ctx)
		if err != nil {
			return artifacts{}, err
		}
		if err := store.Write(result.Raw); err != nil {
			return artifacts{}, err
		}
		rows = result.Raw
	case err != nil:
		return artifacts{}, err
	}

	records, err := aggregate.NormalizeAll(rows)
	if err != nil {
		return artifacts{}, fmt.Errorf("snapshot records: %w", err)
	}

	out := artifacts{
		snapshot: cfg.Output,
		csv:      withExt(cfg.Output, ".csv"),
		workbook: withExt(cfg.Output, ".xlsx"),
		records:  len(records),
	}
	if err := export.WriteCSV(out.csv, records); err != nil {
		return artifacts{}, err
	}
	if err := export.WriteWorkbook(out.workbook, records); err != nil {
		return artifacts{}, err
	}

	if cfg.PreviewRows > 0 {
		export.Preview(os.Stdout, records, cfg.PreviewRows)
	}

	logger.Info().
		Int("records", out.records).
		Str("snapshot", out.snapshot).
		Str("csv", out.csv).
		Str("xlsx", out.workbook).
		Dur("elapsed", time.Since(started)).
		Msg("run complete")
	return out, nil
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
