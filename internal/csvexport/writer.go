package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"figcheck/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (14 columns).
var columns = []string{
	"Claim ID",
	"Page",
	"Item Path",
	"Operation",
	"Operands",
	"Reported Value",
	"Computed Value",
	"Verdict",
	"Status",
	"Failure",
	"Absolute Difference",
	"Relative Difference",
	"Point Difference",
	"Commentary",
}

// operandSeparator joins operand texts in a single cell.
const operandSeparator = " | "

// Writer wraps csv.Writer for exporting claim results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// WriteHeader writes the 14-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts a batch of claim results to CSV rows and writes them.
func (w *Writer) WriteResults(results []domain.ClaimResult) error {
	for i := range results {
		if err := w.csv.Write(Row(&results[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Row converts a single claim result to a 14-element string slice.
func Row(r *domain.ClaimResult) []string {
	row := make([]string, len(columns))
	row[0] = r.ClaimID
	row[1] = FormatPage(r.Page)
	row[2] = r.ItemPath
	row[3] = r.Operation
	row[4] = strings.Join(r.Operands, operandSeparator)
	row[5] = r.ReportedValue
	row[6] = deref(r.ComputedValue)
	row[7] = r.Verdict
	row[8] = string(r.Status)
	row[9] = r.Failure
	row[10] = deref(r.AbsoluteDifference)
	row[11] = deref(r.RelativeDifference)
	row[12] = deref(r.PointDifference)
	row[13] = r.Commentary
	return row
}

// FormatPage renders a passthrough page reference. JSON strings are unquoted;
// numbers and objects are written compactly.
func FormatPage(page json.RawMessage) string {
	if len(page) == 0 || string(page) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(page, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, page); err != nil {
		return string(page)
	}
	return buf.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

const fallbackFilename = "verification_run"

// SanitizeFilename cleans a run name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars. Names with no usable characters
// fall back to "verification_run".
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		return fallbackFilename
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_run_name}_{YYYY-MM-DD}.csv
func BuildFilename(runName string) string {
	sanitized := SanitizeFilename(runName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
