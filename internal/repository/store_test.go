package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tech-selector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openStores(t *testing.T) map[string]EvaluationStore {
	t.Helper()
	logger := zaptest.NewLogger(t)

	sqliteStore, err := NewSQLiteStore("", logger)
	require.NoError(t, err)

	stores := map[string]EvaluationStore{
		DriverMemory: NewMemoryStore(logger),
		DriverSQLite: sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func newEvaluation(i int) *models.Evaluation {
	ev := &models.Evaluation{
		ID:            fmt.Sprintf("ev-%03d", i),
		EvaluatorName: fmt.Sprintf("Evaluator %d", i),
		SubmittedAt:   time.Date(2026, 3, 14, 9, 26, i%60, 0, time.Local),
		Comments:      fmt.Sprintf("comment %d", i),
	}
	ev.Selections.Set(models.Technology(i%models.NumTechnologies), models.Criterion(i%models.NumCriteria), true)
	return ev
}

func TestEvaluationStore_AppendListOrder(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)

			for i := 0; i < 7; i++ {
				require.NoError(t, store.Append(ctx, newEvaluation(i)))
				n, err := store.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, i+1, n)
			}

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 7)
			for i, ev := range list {
				want := newEvaluation(i)
				assert.Equal(t, want.ID, ev.ID)
				assert.Equal(t, want.EvaluatorName, ev.EvaluatorName)
				assert.Equal(t, want.Comments, ev.Comments)
				assert.Equal(t, want.Selections, ev.Selections)
				assert.True(t, want.SubmittedAt.Equal(ev.SubmittedAt))
				assert.Equal(t, want.Timestamp(), ev.Timestamp())
			}
		})
	}
}

func TestEvaluationStore_IsolatedFromCaller(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			ev := newEvaluation(0)
			require.NoError(t, store.Append(ctx, ev))

			ev.Selections.Reset()
			ev.Comments = "changed"

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.True(t, list[0].Selections.Get(models.TechA, models.Criterion1))
			assert.Equal(t, "comment 0", list[0].Comments)

			list[0].Selections.Reset()
			again, err := store.List(ctx)
			require.NoError(t, err)
			assert.True(t, again[0].Selections.Get(models.TechA, models.Criterion1))
		})
	}
}

func TestEvaluationStore_ConcurrentAppend(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 40; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, store.Append(ctx, newEvaluation(i)))
				}(i)
			}
			wg.Wait()

			list, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 40)

			seen := make(map[string]bool, len(list))
			for _, ev := range list {
				assert.False(t, seen[ev.ID], "duplicate %s", ev.ID)
				seen[ev.ID] = true
			}
		})
	}
}

func TestNewEvaluationStore(t *testing.T) {
	logger := zaptest.NewLogger(t)

	store, err := NewEvaluationStore("", "", logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewEvaluationStore(DriverSQLite, "", logger)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = NewEvaluationStore("postgres", "", logger)
	assert.Error(t, err)
}
