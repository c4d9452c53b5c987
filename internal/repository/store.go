package repository

import (
	"context"
	"fmt"

	"tech-selector/internal/models"

	"go.uber.org/zap"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// EvaluationStore is the append-only, ordered record of submitted
// evaluations. Implementations must make Append atomic so that List always
// returns records in submission order.
type EvaluationStore interface {
	Append(ctx context.Context, ev *models.Evaluation) error
	List(ctx context.Context) ([]models.Evaluation, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// NewEvaluationStore opens the backend named by driver.
func NewEvaluationStore(driver, dsn string, logger *zap.Logger) (EvaluationStore, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(logger), nil
	case DriverSQLite:
		store, err := NewSQLiteStore(dsn, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}
