// Package export renders the normalized record collection as tabular
// artifacts: a CSV file, a typed spreadsheet, and a console preview.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paydata/payplan/pkg/record"
)

// Headers is the fixed header row shared by every tabular artifact.
var Headers = []string{
	record.FieldTitle,
	record.FieldID,
	record.FieldCategory,
	record.FieldEffectiveDate,
	"Annual Min",
	"Annual Max",
	"Monthly Min",
	"Monthly Max",
}

// Row renders one record as export cells. Absent titles and salary pairs
// become empty cells.
func Row(rec record.Record) []string {
	return []string{
		rec.Title,
		rec.ID,
		rec.Category,
		rec.EffectiveDate,
		amount(rec.Annual.Min, rec.Annual.Valid),
		amount(rec.Annual.Max, rec.Annual.Valid),
		amount(rec.Monthly.Min, rec.Monthly.Valid),
		amount(rec.Monthly.Max, rec.Monthly.Valid),
	}
}

// Rows renders the full table, header row included, one row per record
// in collection order.
func Rows(records []record.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, Headers)
	for _, rec := range records {
		rows = append(rows, Row(rec))
	}
	return rows
}

// WriteCSV writes the comma-delimited export to path, creating parent
// directories as needed.
func WriteCSV(path string, records []record.Record) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(Rows(records)); err != nil {
		file.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

func amount(value float64, valid bool) string {
	if !valid {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
