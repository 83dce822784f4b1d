// FilePath: internal/repository/memory/memory_test.go
package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sparxlab/sparx-hub/internal/errors"
	"github.com/sparxlab/sparx-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceStoreUpdateStatusIfNewer(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	newStore := func(t *testing.T) *DeviceStore {
		t.Helper()
		s := NewDeviceStore()
		require.NoError(t, s.Create(ctx, &models.Device{
			ID:           "dev_1",
			SerialNumber: "sparx-unit-01",
			IsActive:     true,
		}))
		return s
	}

	t.Run("first update always applies", func(t *testing.T) {
		s := newStore(t)
		applied, err := s.UpdateStatusIfNewer(ctx, "dev_1", models.StatusCritico, base)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("older observation is left out", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateStatusIfNewer(ctx, "dev_1", models.StatusCritico, base)
		require.NoError(t, err)

		applied, err := s.UpdateStatusIfNewer(ctx, "dev_1", models.StatusAdequado, base.Add(-time.Minute))
		require.NoError(t, err)
		assert.False(t, applied)

		device, err := s.Get(ctx, "dev_1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCritico, device.CurrentStatus)
	})

	t.Run("equal timestamp lets the arriving write through", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateStatusIfNewer(ctx, "dev_1", models.StatusCritico, base)
		require.NoError(t, err)

		applied, err := s.UpdateStatusIfNewer(ctx, "dev_1", models.StatusPrecario, base)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("unknown device is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateStatusIfNewer(ctx, "dev_missing", models.StatusCritico, base)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestReadingStoreAggregates(t *testing.T) {
	ctx := context.Background()
	s := NewReadingStore()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	for i, temperature := range []float64{40.0, 50.0, 60.0} {
		require.NoError(t, s.Insert(ctx, &models.Reading{
			ID:          "rd_" + string(rune('a'+i)),
			DeviceID:    "dev_1",
			Temperature: temperature,
			Timestamp:   base.Add(time.Duration(i) * 10 * time.Minute),
		}))
	}
	// A second hour bucket.
	require.NoError(t, s.Insert(ctx, &models.Reading{
		ID: "rd_d", DeviceID: "dev_1", Temperature: 70.0, Timestamp: base.Add(90 * time.Minute),
	}))

	t.Run("hour buckets carry min max avg", func(t *testing.T) {
		aggs, err := s.Aggregates(ctx, "dev_1", base.Add(-time.Hour), base.Add(2*time.Hour), "hour")
		require.NoError(t, err)
		require.Len(t, aggs, 2)

		// Newest bucket first.
		assert.Equal(t, 70.0, aggs[0].Min)
		assert.Equal(t, 1, aggs[0].Count)

		assert.Equal(t, 40.0, aggs[1].Min)
		assert.Equal(t, 60.0, aggs[1].Max)
		assert.InDelta(t, 50.0, aggs[1].Avg, 0.001)
		assert.Equal(t, 3, aggs[1].Count)
	})

	t.Run("unknown interval is rejected", func(t *testing.T) {
		_, err := s.Aggregates(ctx, "dev_1", base, base.Add(time.Hour), "week")
		assert.True(t, errors.IsValidation(err))
	})
}

func TestAlertStoreListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewAlertStore()

	require.NoError(t, s.Create(ctx, &models.Alert{ID: "al_1", DeviceID: "dev_1", Status: models.StatusCritico}))
	require.NoError(t, s.Create(ctx, &models.Alert{ID: "al_2", DeviceID: "dev_2", Status: models.StatusPrecario}))
	_, err := s.Acknowledge(ctx, "al_2", "op_alice", time.Now())
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		alerts, err := s.List(ctx, models.AlertFilters{})
		require.NoError(t, err)
		require.Len(t, alerts, 2)
		assert.Equal(t, "al_2", alerts[0].ID)
	})

	t.Run("acknowledged filter", func(t *testing.T) {
		unacked := false
		alerts, err := s.List(ctx, models.AlertFilters{Acknowledged: &unacked})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "al_1", alerts[0].ID)
	})

	t.Run("device filter", func(t *testing.T) {
		alerts, err := s.List(ctx, models.AlertFilters{DeviceID: "dev_2"})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "al_2", alerts[0].ID)
	})

	t.Run("second acknowledge is a no-op", func(t *testing.T) {
		applied, err := s.Acknowledge(ctx, "al_2", "op_bob", time.Now())
		require.NoError(t, err)
		assert.False(t, applied)

		alert, err := s.Get(ctx, "al_2")
		require.NoError(t, err)
		assert.Equal(t, "op_alice", *alert.AcknowledgedBy)
	})
}
