// Package view renders the evaluation page as templ components.
//
// The markup lives in the .templ files; run `templ generate` after editing
// them.
package view

import (
	"fmt"
	"strconv"
	"strings"

	"tech-selector/internal/models"
)

// Page is everything needed to render the main page
type Page struct {
	EvaluatorName string
	Comment       string
	Selections    models.SelectionMatrix
	FlashKind     string
	FlashMessage  string
	Results       *models.Results
}

// CellValue is the form value of one grid checkbox.
func CellValue(t models.Technology, c models.Criterion) string {
	return t.Slug() + ":" + c.Slug()
}

// ParseCellValue reverses CellValue.
func ParseCellValue(v string) (models.Technology, models.Criterion, error) {
	techSlug, critSlug, ok := strings.Cut(v, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed cell %q", models.ErrUnknownTechnology, v)
	}
	t, err := models.ParseTechnology(techSlug)
	if err != nil {
		return 0, 0, err
	}
	c, err := models.ParseCriterion(critSlug)
	if err != nil {
		return 0, 0, err
	}
	return t, c, nil
}

func cellLabel(t models.Technology, c models.Criterion) string {
	return t.String() + " / " + c.String()
}

func criterionHint(c models.Criterion) string {
	return "Does " + c.String() + " apply to this technology?"
}

func noDataMessage(res *models.Results) string {
	if res != nil && res.Message != "" {
		return res.Message
	}
	return models.NoDataMessage
}

func showResults(res *models.Results) bool {
	return res != nil && !res.Empty
}

func summaryCells(r models.SummaryRow) []string {
	return []string{r.Evaluator, r.Timestamp, r.Comments, r.SelectedTechnologies}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
