package service

import (
	"strings"

	"tech-selector/internal/models"
)

const (
	NoCommentsPlaceholder  = "(no comments)"
	NoSelectionPlaceholder = "(none selected)"
)

// Scores holds, per technology, one percentage per criterion in the order
// the criteria were passed to ComputeScores.
type Scores map[models.Technology][]float64

// ComputeScores returns the share of records selecting each
// (technology, criterion) pair as a percentage in [0, 100]. An empty
// record set yields all zeros; callers are expected to show a no-data state
// instead.
func ComputeScores(records []models.Evaluation, technologies []models.Technology, criteria []models.Criterion) Scores {
	scores := make(Scores, len(technologies))
	for _, tech := range technologies {
		scores[tech] = make([]float64, len(criteria))
	}
	if len(records) == 0 {
		return scores
	}

	total := float64(len(records))
	for _, tech := range technologies {
		for i, crit := range criteria {
			count := 0
			for _, ev := range records {
				if ev.Selections.Get(tech, crit) {
					count++
				}
			}
			scores[tech][i] = float64(count) / total * 100
		}
	}

	return scores
}

// Summarize builds one results-table row per evaluation.
func Summarize(records []models.Evaluation) []models.SummaryRow {
	rows := make([]models.SummaryRow, 0, len(records))
	for _, ev := range records {
		comments := ev.Comments
		if comments == "" {
			comments = NoCommentsPlaceholder
		}

		selected := NoSelectionPlaceholder
		if techs := ev.Selections.SelectedTechnologies(); len(techs) > 0 {
			names := make([]string, len(techs))
			for i, t := range techs {
				names[i] = t.String()
			}
			selected = strings.Join(names, ", ")
		}

		rows = append(rows, models.SummaryRow{
			Evaluator:            ev.EvaluatorName,
			Timestamp:            ev.Timestamp(),
			Comments:             comments,
			SelectedTechnologies: selected,
		})
	}
	return rows
}
