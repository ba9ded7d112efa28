package service_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/service"
)

func TestHistory_AppendAndSnapshot(t *testing.T) {
	h := service.NewHistory(0)
	assert.NotNil(t, h.Snapshot())
	assert.Empty(t, h.Snapshot())

	a := models.DrawEvent{Type: models.DrawStart, X: 1}
	b := models.DrawEvent{Type: models.DrawDraw, X: 2}
	require.NoError(t, h.Append(a))
	require.NoError(t, h.Append(b))

	assert.Equal(t, []models.DrawEvent{a, b}, h.Snapshot())
	assert.Equal(t, 2, h.Len())
}

func TestHistory_RejectsClear(t *testing.T) {
	h := service.NewHistory(0)

	err := h.Append(models.DrawEvent{Type: models.DrawClear})
	assert.ErrorIs(t, err, service.ErrClearInHistory)
	assert.Equal(t, 0, h.Len())
}

func TestHistory_SnapshotIsACopy(t *testing.T) {
	h := service.NewHistory(0)
	require.NoError(t, h.Append(models.DrawEvent{Type: models.DrawDraw, Color: "#111111"}))

	snapshot := h.Snapshot()
	snapshot[0].Color = "#222222"
	assert.Equal(t, "#111111", h.Snapshot()[0].Color)

	// Later mutations do not reach a snapshot already handed out
	require.NoError(t, h.Append(models.DrawEvent{Type: models.DrawEnd}))
	h.Clear()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, models.DrawDraw, snapshot[0].Type)
}

func TestHistory_ClearThenAppend(t *testing.T) {
	h := service.NewHistory(0)
	require.NoError(t, h.Append(models.DrawEvent{Type: models.DrawDraw, X: 1}))

	h.Clear()
	assert.Empty(t, h.Snapshot())

	next := models.DrawEvent{Type: models.DrawDraw, X: 2}
	require.NoError(t, h.Append(next))
	assert.Equal(t, []models.DrawEvent{next}, h.Snapshot())
}

func TestHistory_Limit(t *testing.T) {
	h := service.NewHistory(3)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Append(models.DrawEvent{Type: models.DrawDraw, X: float64(i)}))
	}

	snapshot := h.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, 2.0, snapshot[0].X)
	assert.Equal(t, 4.0, snapshot[2].X)
}

func TestHistory_LimitAcrossManyTrims(t *testing.T) {
	const limit = 4
	h := service.NewHistory(limit)

	for i := 0; i < 10*limit+3; i++ {
		require.NoError(t, h.Append(models.DrawEvent{Type: models.DrawDraw, X: float64(i)}))

		snapshot := h.Snapshot()
		want := min(i+1, limit)
		require.Len(t, snapshot, want)
		assert.Equal(t, want, h.Len())
		for j, event := range snapshot {
			assert.Equal(t, float64(i+1-want+j), event.X)
		}
	}
}

func TestHistory_ConcurrentAppends(t *testing.T) {
	h := service.NewHistory(0)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h.Append(models.DrawEvent{Type: models.DrawDraw})
				h.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, h.Len())
}
