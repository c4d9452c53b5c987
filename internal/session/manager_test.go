package session

import (
	"context"
	"testing"
	"time"

	"tech-selector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestManager_DraftsAreIndependent(t *testing.T) {
	m := NewManager(0, zaptest.NewLogger(t))
	alice, bob := m.NewID(), m.NewID()

	m.Update(alice, func(d *Draft) {
		d.EvaluatorName = "Alice"
		d.Selections.Set(models.TechA, models.Criterion1, true)
	})

	assert.True(t, m.View(alice).Selections.Get(models.TechA, models.Criterion1))
	assert.False(t, m.View(bob).Selections.Get(models.TechA, models.Criterion1))
	assert.Empty(t, m.View(bob).EvaluatorName)
	assert.Equal(t, 2, m.Len())
}

func TestManager_ViewReturnsCopy(t *testing.T) {
	m := NewManager(0, zaptest.NewLogger(t))
	id := m.NewID()

	view := m.View(id)
	view.Selections.Set(models.TechB, models.Criterion2, true)
	view.Comment = "local only"

	stored := m.View(id)
	assert.False(t, stored.Selections.Get(models.TechB, models.Criterion2))
	assert.Empty(t, stored.Comment)
}

func TestDraft_ClearFormKeepsName(t *testing.T) {
	d := Draft{EvaluatorName: "Alice", Comment: "good fit"}
	d.Selections.Set(models.TechC, models.Criterion3, true)

	d.ClearForm()

	assert.Equal(t, "Alice", d.EvaluatorName)
	assert.Empty(t, d.Comment)
	assert.Zero(t, d.Selections.Count())
}

func TestManager_PopFlash(t *testing.T) {
	m := NewManager(0, zaptest.NewLogger(t))
	id := m.NewID()

	assert.Nil(t, m.PopFlash(id))

	m.Update(id, func(d *Draft) {
		d.Flash = &Flash{Kind: FlashError, Message: "boom"}
	})

	f := m.PopFlash(id)
	require.NotNil(t, f)
	assert.Equal(t, "boom", f.Message)
	assert.Nil(t, m.PopFlash(id))
}

func TestManager_Sweep(t *testing.T) {
	m := NewManager(time.Minute, zaptest.NewLogger(t))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.View("stale")
	now = now.Add(2 * time.Minute)
	m.View("fresh")

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	m.Update("fresh", func(d *Draft) {})
	assert.Zero(t, m.Sweep())
}

func TestManager_SweepDisabled(t *testing.T) {
	m := NewManager(0, zaptest.NewLogger(t))
	m.View("a")
	assert.Zero(t, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	m := NewManager(time.Millisecond, zaptest.NewLogger(t))
	m.View("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestValidID(t *testing.T) {
	m := NewManager(0, zaptest.NewLogger(t))
	assert.True(t, ValidID(m.NewID()))
	assert.False(t, ValidID("not-a-session"))
	assert.False(t, ValidID(""))
}
