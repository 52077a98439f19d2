// Package record defines the raw and normalized pay-plan record types
// and the normalization step between them.
package record

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paydata/payplan/pkg/salary"
)

// Upstream column labels, in API row order. They double as the JSON field
// names of a Raw so snapshots stay interchangeable with the upstream
// export format.
const (
	FieldTitle         = "Job Title"
	FieldID            = "Job ID (Job Code)"
	FieldCategory      = "Job Category"
	FieldEffectiveDate = "Effective Date"
	FieldAnnualRange   = "Annual Min - Max"
	FieldMonthlyRange  = "Monthly Min - Max"
)

// FieldCount is the arity of an upstream API row.
const FieldCount = 6

// titlePattern extracts the display text wrapped by the first pair of
// angle-bracket tags in the raw title markup.
var titlePattern = regexp.MustCompile(`>(.*?)<`)

// Raw is one record as served by the upstream API, before any parsing.
type Raw struct {
	Title         string `json:"Job Title"`
	ID            string `json:"Job ID (Job Code)"`
	Category      string `json:"Job Category"`
	EffectiveDate string `json:"Effective Date"`
	AnnualRange   string `json:"Annual Min - Max"`
	MonthlyRange  string `json:"Monthly Min - Max"`
}

// ValidationError reports a required field missing from a raw record.
// Downstream exports assume these fields are always present, so a raw
// record failing validation aborts the run instead of producing a
// corrupt row.
type ValidationError struct {
	Field string
	ID    string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %s: required field %q is missing", e.ID, e.Field)
	}
	return fmt.Sprintf("record: required field %q is missing", e.Field)
}

// FromRow builds a Raw from a positional API row. The row must carry
// exactly six cells in upstream column order and pass Validate.
func FromRow(row []string) (Raw, error) {
	if len(row) != FieldCount {
		return Raw{}, fmt.Errorf("record: row has %d fields, want %d", len(row), FieldCount)
	}
	raw := Raw{
		Title:         row[0],
		ID:            row[1],
		Category:      row[2],
		EffectiveDate: row[3],
		AnnualRange:   row[4],
		MonthlyRange:  row[5],
	}
	if err := raw.Validate(); err != nil {
		return Raw{}, err
	}
	return raw, nil
}

// Validate checks that the required fields (id, category, effective date)
// are present. Title markup and salary ranges are not required: they
// degrade to absent values during normalization.
func (r Raw) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &ValidationError{Field: FieldID}
	}
	if strings.TrimSpace(r.Category) == "" {
		return &ValidationError{Field: FieldCategory, ID: r.ID}
	}
	if strings.TrimSpace(r.EffectiveDate) == "" {
		return &ValidationError{Field: FieldEffectiveDate, ID: r.ID}
	}
	return nil
}

// Record is the normalized, canonical job listing entry. It is
// constructed once from a Raw and never mutated.
type Record struct {
	// Title is the plain text extracted from the raw markup; empty when
	// the markup did not match the expected pattern.
	Title         string
	ID            string
	Category      string
	EffectiveDate string
	Annual        salary.Range
	Monthly       salary.Range
}

// Normalize converts a raw API record into its canonical form. Sub-field
// parse failures degrade to absent values; Normalize itself never fails
// and is idempotent with respect to its input.
func Normalize(raw Raw) Record {
	title, ok := extractTitle(raw.Title)
	if !ok {
		titleAbsencesTotal.Inc()
	}

	annual := salary.ParseRange(raw.AnnualRange)
	if !annual.Valid {
		salaryAbsencesTotal.WithLabelValues("annual").Inc()
	}
	monthly := salary.ParseRange(raw.MonthlyRange)
	if !monthly.Valid {
		salaryAbsencesTotal.WithLabelValues("monthly").Inc()
	}

	return Record{
		Title:         title,
		ID:            raw.ID,
		Category:      raw.Category,
		EffectiveDate: raw.EffectiveDate,
		Annual:        annual,
		Monthly:       monthly,
	}
}

// extractTitle returns the text between the first angle-bracket tag pair
// of the markup. It is a single first-match extraction, not an HTML-aware
// parse.
func extractTitle(markup string) (string, bool) {
	match := titlePattern.FindStringSubmatch(markup)
	if match == nil {
		return "", false
	}
	return match[1], true
}
