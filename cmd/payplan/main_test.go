package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paydata/payplan/internal/config"
	"github.com/paydata/payplan/internal/testutil"
	"github.com/paydata/payplan/pkg/record"
	"github.com/paydata/payplan/pkg/snapshot"
)

func testConfig(baseURL, output string) *config.Config {
	return &config.Config{
		BaseURL:  baseURL,
		Output:   output,
		PageSize: 2,
		LogLevel: "error",
	}
}

func TestRunFetchesSnapshotAndExports(t *testing.T) {
	mock := testutil.NewMockPayPlan(testutil.SampleRows())
	defer mock.Close()

	output := filepath.Join(t.TempDir(), "data", "payplan.json")
	out, err := run(context.Background(), testConfig(mock.URL(), output))
	require.NoError(t, err)
	require.Equal(t, 3, out.records)

	// Snapshot written and loadable.
	rows, err := snapshot.NewStore(output).Load()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// CSV has a header plus one row per record; absence renders as empty
	// cells.
	payload, err := os.ReadFile(out.csv)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "Librarian I", strings.SplitN(lines[1], ",", 2)[0])
	require.Equal(t, "Accountant II,0002 (A002),Finance,09/01/2025,,,4166.67,5416.67", lines[2])

	// The malformed-title row exports an empty title cell.
	require.True(t, strings.HasPrefix(lines[3], ",0003"))

	// Spreadsheet artifact exists.
	_, err = os.Stat(out.workbook)
	require.NoError(t, err)
}

func TestRunServedFromExistingSnapshot(t *testing.T) {
	mock := testutil.NewMockPayPlan(testutil.SampleRows())
	mock.SetFailure(http.StatusInternalServerError, 0)
	defer mock.Close()

	output := filepath.Join(t.TempDir(), "payplan.json")
	store := snapshot.NewStore(output)
	require.NoError(t, store.Write([]record.Raw{{
		Title:         ">Librarian I<",
		ID:            "0001",
		Category:      "Library",
		EffectiveDate: "09/01/2025",
	}}))

	out, err := run(context.Background(), testConfig(mock.URL(), output))
	require.NoError(t, err)
	require.Equal(t, 1, out.records)

	// Serving from the snapshot means no request was made at all.
	require.Equal(t, 0, mock.RequestCount())
}

func TestRunLeavesNoPartialSnapshotOnFailure(t *testing.T) {
	mock := testutil.NewMockPayPlan(testutil.SampleRows())
	// The probe succeeds; the first page fetch fails.
	mock.SetFailure(http.StatusInternalServerError, 1)
	defer mock.Close()

	output := filepath.Join(t.TempDir(), "payplan.json")
	_, err := run(context.Background(), testConfig(mock.URL(), output))
	require.Error(t, err)

	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr))
}
