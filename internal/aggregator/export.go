package aggregator

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// exportColumns is the fixed column order of the CSV snapshot.
var exportColumns = []string{"title", "company", "location", "remote", "datePosted", "description", "sourceUrl"}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ExportCSV renders a hit list as an RFC 4180 CSV snapshot with a header
// row. HTML markup and repeated whitespace are stripped from text fields in
// the exported view only; the hits themselves are left untouched.
func ExportCSV(hits []NormalizedHit) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(exportColumns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, h := range hits {
		row := []string{
			exportText(h.Title),
			exportText(h.Company),
			exportText(h.Location),
			strconv.FormatBool(h.IsRemote),
			exportText(h.DatePosted),
			exportText(h.Description),
			h.SourceURL,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

// exportText strips markup and collapses whitespace for the tabular view.
func exportText(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
