package aggregate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paydata/payplan/pkg/record"
)

// fakeFetcher serves a scripted sequence of pages.
type fakeFetcher struct {
	pages    [][]record.Raw
	total    int
	pageSize int

	calls    int
	failPage int
	failErr  error

	// endless makes every page request past the script return the last
	// scripted page again, simulating a fetcher that never signals
	// end-of-data.
	endless bool
}

func (f *fakeFetcher) TotalRecords(ctx context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeFetcher) PageSize() int {
	return f.pageSize
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) ([]record.Raw, error) {
	f.calls++
	if f.failErr != nil && page == f.failPage {
		return nil, f.failErr
	}
	if page < len(f.pages) {
		return f.pages[page], nil
	}
	if f.endless && len(f.pages) > 0 {
		return f.pages[len(f.pages)-1], nil
	}
	return nil, nil
}

func rawRecords(n, offset int) []record.Raw {
	rows := make([]record.Raw, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, record.Raw{
			Title:         fmt.Sprintf(">Job %d<", offset+i),
			ID:            fmt.Sprintf("%04d", offset+i),
			Category:      "General",
			EffectiveDate: "09/01/2025",
			AnnualRange:   "$45,000.00 - $60,000.00",
			MonthlyRange:  "$3,750.00 - $5,000.00",
		})
	}
	return rows
}

func TestRunCollectsAllPagesInOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:    [][]record.Raw{rawRecords(2, 0), rawRecords(2, 2), rawRecords(1, 4)},
		total:    5,
		pageSize: 2,
	}

	result, err := New(fetcher).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Raw, 5)
	require.Len(t, result.Records, 5)
	require.Equal(t, 5, result.Total)

	for i, rec := range result.Records {
		require.Equal(t, fmt.Sprintf("Job %d", i), rec.Title)
		require.Equal(t, fetcher.pages[i/2][i%2].ID, rec.ID)
	}

	// ceil(5/2) = 3 pages suffice; the +1 safety page is never requested.
	require.Equal(t, 3, fetcher.calls)
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:    [][]record.Raw{rawRecords(2, 0), {}},
		total:    10,
		pageSize: 2,
	}

	result, err := New(fetcher).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.Equal(t, 2, fetcher.calls)
}

func TestRunBoundedWithoutEndOfData(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:    [][]record.Raw{rawRecords(1, 0)},
		total:    10,
		pageSize: 4,
		endless:  true,
	}

	result, err := New(fetcher).Run(context.Background())
	require.NoError(t, err)

	// ceil(10/4) + 1 = 4 pages at most, then the run is cut off.
	require.Equal(t, 4, fetcher.calls)
	require.Len(t, result.Records, 4)
}

func TestRunZeroTotal(t *testing.T) {
	fetcher := &fakeFetcher{total: 0, pageSize: 100}

	result, err := New(fetcher).Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Records)
	require.Equal(t, 1, fetcher.calls)
}

func TestRunPropagatesFetchFailure(t *testing.T) {
	transportErr := errors.New("connection reset")
	fetcher := &fakeFetcher{
		pages:    [][]record.Raw{rawRecords(2, 0), rawRecords(2, 2)},
		total:    4,
		pageSize: 2,
		failPage: 1,
		failErr:  transportErr,
	}

	result, err := New(fetcher).Run(context.Background())
	require.Nil(t, result)
	require.ErrorIs(t, err, transportErr)
}

func TestRunRejectsMalformedRequiredField(t *testing.T) {
	bad := rawRecords(2, 0)
	bad[1].ID = ""
	fetcher := &fakeFetcher{
		pages:    [][]record.Raw{bad},
		total:    2,
		pageSize: 2,
	}

	result, err := New(fetcher).Run(context.Background())
	require.Nil(t, result)

	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, record.FieldID, verr.Field)
}

func TestRunPassesDuplicatesThrough(t *testing.T) {
	page := rawRecords(2, 0)
	fetcher := &fakeFetcher{
		pages:    [][]record.Raw{page, page},
		total:    4,
		pageSize: 2,
	}

	result, err := New(fetcher).Run(context.Background())
	require.NoError(t, err)

	// Overlapping pages are passed through as-is, not deduplicated.
	require.Len(t, result.Records, 4)
	require.Equal(t, result.Records[0], result.Records[2])
}

func TestNormalizeAll(t *testing.T) {
	records, err := NormalizeAll(rawRecords(3, 0))
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Job 1", records[1].Title)
	require.True(t, records[1].Annual.Valid)
}
