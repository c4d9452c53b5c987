package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"tech-selector/internal/models"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN is a private in-memory database. It disappears with the
// process, like the memory store.
const DefaultSQLiteDSN = ":memory:"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps evaluations in an SQLite database
type SQLiteStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type evaluationRow struct {
	Seq           int64                  `db:"seq"`
	ID            string                 `db:"id"`
	EvaluatorName string                 `db:"evaluator_name"`
	SubmittedAt   int64                  `db:"submitted_at"`
	Selections    models.SelectionMatrix `db:"selections"`
	Comments      string                 `db:"comments"`
}

// NewSQLiteStore opens the database and applies migrations
func NewSQLiteStore(dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database lives on its connection, so keep exactly one
	// and never recycle it. This also serializes appends.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Evaluation store initialized",
		zap.String("driver", DriverSQLite),
		zap.String("dsn", dsn))

	return store, nil
}

// migrate applies the embedded schema
func (s *SQLiteStore) migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to get database instance for migrations: %w", err)
	}

	// Closing m would close the shared *sql.DB, so it is left to the GC.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	s.logger.Debug("Database migration was run successfully")
	return nil
}

// Append inserts a single evaluation
func (s *SQLiteStore) Append(ctx context.Context, ev *models.Evaluation) error {
	query := `
		INSERT INTO evaluations (id, evaluator_name, submitted_at, selections, comments)
		VALUES (:id, :evaluator_name, :submitted_at, :selections, :comments)
	`

	row := evaluationRow{
		ID:            ev.ID,
		EvaluatorName: ev.EvaluatorName,
		SubmittedAt:   ev.SubmittedAt.Unix(),
		Selections:    ev.Selections,
		Comments:      ev.Comments,
	}

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	return nil
}

// List retrieves all evaluations in submission order
func (s *SQLiteStore) List(ctx context.Context) ([]models.Evaluation, error) {
	query := `
		SELECT seq, id, evaluator_name, submitted_at, selections, comments
		FROM evaluations
		ORDER BY seq ASC
	`

	var rows []evaluationRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}

	evaluations := make([]models.Evaluation, 0, len(rows))
	for _, row := range rows {
		evaluations = append(evaluations, models.Evaluation{
			ID:            row.ID,
			EvaluatorName: row.EvaluatorName,
			SubmittedAt:   time.Unix(row.SubmittedAt, 0),
			Selections:    row.Selections,
			Comments:      row.Comments,
		})
	}

	return evaluations, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM evaluations"); err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return total, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
