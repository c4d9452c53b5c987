package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tech-selector/internal/models"
	"tech-selector/internal/repository"
	"tech-selector/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Evaluator handles submission and results business logic
type Evaluator struct {
	store  repository.EvaluationStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewEvaluator creates a new evaluator service
func NewEvaluator(store repository.EvaluationStore, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Submit validates the request, stores a new evaluation and returns it.
// A blank evaluator name fails with *ValidationError and stores nothing.
func (e *Evaluator) Submit(ctx context.Context, req models.SubmitRequest) (*models.Evaluation, error) {
	name := strings.TrimSpace(req.EvaluatorName)
	if name == "" {
		return nil, &ValidationError{Field: "evaluator_name", Err: ErrMissingEvaluatorName}
	}

	evaluation := &models.Evaluation{
		ID:            e.newID(),
		EvaluatorName: name,
		SubmittedAt:   e.now().Truncate(time.Second),
		Selections:    req.Selections,
		Comments:      strings.TrimSpace(req.Comments),
	}

	if err := e.store.Append(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	e.logger.Info("Evaluation submitted",
		zap.String("id", evaluation.ID),
		zap.String("evaluator", evaluation.EvaluatorName),
		zap.Int("selected_pairs", evaluation.Selections.Count()))

	return evaluation, nil
}

// SubmitDraft submits a snapshot of the session's current draft. On success
// the draft grid and comment are cleared; on failure the draft is left as it
// was. The store write happens outside the session lock.
func (e *Evaluator) SubmitDraft(ctx context.Context, sessions *session.Manager, sessionID string) (*models.Evaluation, error) {
	draft := sessions.View(sessionID)

	evaluation, err := e.Submit(ctx, models.SubmitRequest{
		EvaluatorName: draft.EvaluatorName,
		Comments:      draft.Comment,
		Selections:    draft.Selections,
	})
	if err != nil {
		return nil, err
	}

	sessions.Update(sessionID, (*session.Draft).ClearForm)
	return evaluation, nil
}

// Evaluations returns every stored evaluation in submission order.
func (e *Evaluator) Evaluations(ctx context.Context) ([]models.Evaluation, error) {
	return e.store.List(ctx)
}

// Count returns the number of stored evaluations.
func (e *Evaluator) Count(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// Results aggregates the store for the results section.
func (e *Evaluator) Results(ctx context.Context) (*models.Results, error) {
	records, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	if len(records) == 0 {
		return &models.Results{Empty: true, Message: models.NoDataMessage}, nil
	}

	technologies := models.Technologies()
	criteria := models.Criteria()
	scores := ComputeScores(records, technologies, criteria)

	criteriaNames := make([]string, len(criteria))
	for i, c := range criteria {
		criteriaNames[i] = c.String()
	}

	series := make([]models.ScoreSeries, 0, len(technologies))
	for _, tech := range technologies {
		series = append(series, models.ScoreSeries{
			Technology: tech,
			Name:       tech.String(),
			Color:      tech.Color(),
			Values:     scores[tech],
		})
	}

	return &models.Results{
		Criteria:              criteriaNames,
		Series:                series,
		TotalEvaluators:       len(records),
		CriteriaAssessed:      len(criteria),
		TechnologiesEvaluated: len(technologies),
		Rows:                  Summarize(records),
	}, nil
}
