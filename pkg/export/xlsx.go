package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/paydata/payplan/pkg/record"
)

// SheetName is the single worksheet the spreadsheet export writes to.
const SheetName = "Pay Plan"

// effectiveDateLayout is the date format the upstream serves.
const effectiveDateLayout = "01/02/2006"

// WriteWorkbook writes the spreadsheet export: same rows as the CSV, but
// with the effective date as a real date cell and salaries as numeric
// cells. Dates that do not parse fall back to their raw string.
func WriteWorkbook(path string, records []record.Record) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create directory %s: %w", dir, err)
		}
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	// NumFmt 14 is the builtin short date format (mm-dd-yy).
	dateStyle, err := book.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("export: date style: %w", err)
	}

	for col, header := range Headers {
		if err := setCell(book, col, 0, header); err != nil {
			return err
		}
	}

	for i, rec := range records {
		row := i + 1
		if err := setCell(book, 0, row, rec.Title); err != nil {
			return err
		}
		if err := setCell(book, 1, row, rec.ID); err != nil {
			return err
		}
		if err := setCell(book, 2, row, rec.Category); err != nil {
			return err
		}

		if date, perr := time.Parse(effectiveDateLayout, rec.EffectiveDate); perr == nil {
			cell, _ := excelize.CoordinatesToCellName(4, row+1)
			if err := book.SetCellValue(SheetName, cell, date); err != nil {
				return fmt.Errorf("export: set cell %s: %w", cell, err)
			}
			if err := book.SetCellStyle(SheetName, cell, cell, dateStyle); err != nil {
				return fmt.Errorf("export: style cell %s: %w", cell, err)
			}
		} else if err := setCell(book, 3, row, rec.EffectiveDate); err != nil {
			return err
		}

		if rec.Annual.Valid {
			if err := setCell(book, 4, row, rec.Annual.Min); err != nil {
				return err
			}
			if err := setCell(book, 5, row, rec.Annual.Max); err != nil {
				return err
			}
		}
		if rec.Monthly.Valid {
			if err := setCell(book, 6, row, rec.Monthly.Min); err != nil {
				return err
			}
			if err := setCell(book, 7, row, rec.Monthly.Max); err != nil {
				return err
			}
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func setCell(book *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("export: cell coordinates (%d, %d): %w", col, row, err)
	}
	if err := book.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("export: set cell %s: %w", cell, err)
	}
	return nil
}
