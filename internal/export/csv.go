// Package export writes evaluations as downloadable CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"tech-selector/internal/models"
)

const (
	CheckMark = "✓"

	filenameTimeLayout = "2006-01-02_15-04-05"
)

// DetailedHeader returns the detailed export header: fixed columns followed
// by one column per criterion.
func DetailedHeader() []string {
	header := []string{"Evaluator", "Timestamp", "Technology", "Comments"}
	for _, c := range models.Criteria() {
		header = append(header, c.String())
	}
	return header
}

// SummaryHeader is the summary export header.
func SummaryHeader() []string {
	return []string{"Evaluator", "Timestamp", "Comments", "Selected Technologies"}
}

// WriteDetailed writes one row per (evaluation, technology) pair, so the row
// count is len(evaluations) * models.NumTechnologies.
func WriteDetailed(w io.Writer, evaluations []models.Evaluation) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(DetailedHeader()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, ev := range evaluations {
		for _, tech := range models.Technologies() {
			row := []string{ev.EvaluatorName, ev.Timestamp(), tech.String(), ev.Comments}
			for _, crit := range models.Criteria() {
				cell := ""
				if ev.Selections.Get(tech, crit) {
					cell = CheckMark
				}
				row = append(row, cell)
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummary writes one row per evaluation.
func WriteSummary(w io.Writer, rows []models.SummaryRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(SummaryHeader()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range rows {
		if err := writer.Write([]string{r.Evaluator, r.Timestamp, r.Comments, r.SelectedTechnologies}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// DetailedFilename names a detailed export taken at t.
func DetailedFilename(t time.Time) string {
	return fmt.Sprintf("technology_evaluation_%s.csv", t.Format(filenameTimeLayout))
}

// SummaryFilename names a summary export taken at t.
func SummaryFilename(t time.Time) string {
	return fmt.Sprintf("technology_evaluation_summary_%s.csv", t.Format(filenameTimeLayout))
}
