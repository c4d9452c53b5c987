package models

import (
	"encoding/json"
	"time"
)

// NoDataMessage is shown in place of results while no evaluation exists.
const NoDataMessage = "No evaluations submitted yet. Start evaluating above to see results!"

// TimestampLayout is the second-precision ISO form shown in tables and exports.
const TimestampLayout = "2006-01-02T15:04:05"

// Evaluation is one evaluator's submitted selections. It is never modified
// after creation.
type Evaluation struct {
	ID            string          `json:"id"`
	EvaluatorName string          `json:"evaluator_name"`
	SubmittedAt   time.Time       `json:"-"`
	Selections    SelectionMatrix `json:"selections"`
	Comments      string          `json:"comments"`
}

// Timestamp formats SubmittedAt with TimestampLayout.
func (e Evaluation) Timestamp() string {
	return e.SubmittedAt.Format(TimestampLayout)
}

// MarshalJSON adds the formatted timestamp.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	type alias Evaluation
	return json.Marshal(struct {
		alias
		Timestamp string `json:"timestamp"`
	}{
		alias:     alias(e),
		Timestamp: e.Timestamp(),
	})
}

// SubmitRequest is the JSON body for creating an evaluation
type SubmitRequest struct {
	EvaluatorName string          `json:"evaluator_name"`
	Comments      string          `json:"comments"`
	Selections    SelectionMatrix `json:"selections"`
}

// ScoreSeries is one technology's percentages, one per criterion in
// Criteria() order.
type ScoreSeries struct {
	Technology Technology `json:"-"`
	Name       string     `json:"technology"`
	Color      string     `json:"color"`
	Values     []float64  `json:"values"`
}

// SummaryRow is the per-evaluation line of the results table and summary CSV
type SummaryRow struct {
	Evaluator            string `json:"evaluator"`
	Timestamp            string `json:"timestamp"`
	Comments             string `json:"comments"`
	SelectedTechnologies string `json:"selected_technologies"`
}

// Results is everything the results section shows. When Empty is true the
// other fields are zero and the caller renders the no-data state.
type Results struct {
	Empty                 bool          `json:"empty"`
	Message               string        `json:"message,omitempty"`
	Criteria              []string      `json:"criteria,omitempty"`
	Series                []ScoreSeries `json:"series,omitempty"`
	TotalEvaluators       int           `json:"total_evaluators"`
	CriteriaAssessed      int           `json:"criteria_assessed"`
	TechnologiesEvaluated int           `json:"technologies_evaluated"`
	Rows                  []SummaryRow  `json:"rows,omitempty"`
}
