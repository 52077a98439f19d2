package integration

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/paydata/payplan/internal/testutil"
	"github.com/paydata/payplan/pkg/aggregate"
	"github.com/paydata/payplan/pkg/export"
	"github.com/paydata/payplan/pkg/payplan"
	"github.com/paydata/payplan/pkg/snapshot"
)

// TestFullPipeline pages through the mock endpoint, persists the
// snapshot, and regenerates both exports from it.
func TestFullPipeline(t *testing.T) {
	mock := testutil.NewMockPayPlan(testutil.SampleRows())
	defer mock.Close()

	client := payplan.NewClient(
		payplan.WithBaseURL(mock.URL()),
		payplan.WithPageSize(2),
	)

	ctx := context.Background()
	result, err := aggregate.New(client).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	require.Len(t, result.Records, 3)

	// Probe plus two data pages plus the empty terminator page.
	require.LessOrEqual(t, mock.RequestCount(), 4)

	dir := t.TempDir()
	store := snapshot.NewStore(filepath.Join(dir, "payplan.json"))
	require.NoError(t, store.Write(result.Raw))

	// A fresh process sees the snapshot and never touches the network.
	before := mock.RequestCount()
	rows, err := snapshot.NewStore(store.Path()).Load()
	require.NoError(t, err)
	require.Equal(t, before, mock.RequestCount())

	records, err := aggregate.NormalizeAll(rows)
	require.NoError(t, err)
	require.Equal(t, result.Records, records)

	csvPath := filepath.Join(dir, "payplan.csv")
	require.NoError(t, export.WriteCSV(csvPath, records))

	file, err := os.Open(csvPath)
	require.NoError(t, err)
	defer file.Close()
	lines, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	require.Equal(t, export.Headers, lines[0])
	require.Equal(t, "Librarian I", lines[1][0])
	require.Equal(t, "", lines[2][4]) // absent annual minimum
	require.Equal(t, "", lines[3][0]) // unparseable title markup

	xlsxPath := filepath.Join(dir, "payplan.xlsx")
	require.NoError(t, export.WriteWorkbook(xlsxPath, records))

	workbook, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer workbook.Close()
	cells, err := workbook.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, cells, 4)
}

// TestPipelineAbortsOnPageFailure verifies a mid-run transport failure
// surfaces as an error instead of a truncated result.
func TestPipelineAbortsOnPageFailure(t *testing.T) {
	mock := testutil.NewMockPayPlan(testutil.SampleRows())
	mock.SetFailure(500, 2)
	defer mock.Close()

	client := payplan.NewClient(
		payplan.WithBaseURL(mock.URL()),
		payplan.WithPageSize(2),
	)

	_, err := aggregate.New(client).Run(context.Background())
	require.Error(t, err)

	var apiErr *payplan.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 500, apiErr.StatusCode)
}

// TestPipelineBoundedWithInflatedTotal exercises the runaway-pagination
// guard: the server claims far more records than it serves, and the run
// still terminates with what exists.
func TestPipelineBoundedWithInflatedTotal(t *testing.T) {
	mock := testutil.NewMockPayPlan(testutil.SampleRows())
	mock.SetTotalOverride(1000)
	defer mock.Close()

	client := payplan.NewClient(
		payplan.WithBaseURL(mock.URL()),
		payplan.WithPageSize(2),
	)

	result, err := aggregate.New(client).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
}
