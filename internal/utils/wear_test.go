package utils

import (
	"testing"
	"time"

	"toolcrib-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestComputeWear(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("Elapsed hours", func(t *testing.T) {
		hours, err := ComputeWear(base, base.Add(95*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, 95.0, hours)
	})

	t.Run("Fractional hours", func(t *testing.T) {
		hours, err := ComputeWear(base, base.Add(90*time.Minute))
		assert.NoError(t, err)
		assert.Equal(t, 1.5, hours)
	})

	t.Run("Zero duration", func(t *testing.T) {
		hours, err := ComputeWear(base, base)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, hours)
	})

	t.Run("End before start", func(t *testing.T) {
		_, err := ComputeWear(base, base.Add(-time.Minute))
		assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	})
}

func TestApplyWear(t *testing.T) {
	tests := []struct {
		name           string
		remaining      float64
		threshold      float64
		total          float64
		hours          float64
		wantRemaining  float64
		wantTotal      float64
		wantBelowLimit bool
	}{
		{"Normal wear", 100, 10, 0, 20, 80, 20, false},
		{"Zero hours leaves tool untouched", 100, 10, 5, 0, 100, 5, false},
		{"Lands exactly on threshold", 100, 10, 0, 90, 10, 90, true},
		{"Lands below threshold", 100, 10, 0, 95, 5, 95, true},
		{"Clamped at zero, not wrapped", 3, 10, 40, 12, 0, 52, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := &domain.Tool{
				LifeLimit:       100,
				RemainingLife:   tt.remaining,
				ThresholdLimit:  tt.threshold,
				TotalUsageHours: tt.total,
			}
			res := ApplyWear(tool, tt.hours)
			assert.Equal(t, tt.wantRemaining, res.RemainingLife)
			assert.Equal(t, tt.wantTotal, res.TotalUsageHours)
			assert.Equal(t, tt.wantBelowLimit, res.BelowThreshold)
			assert.GreaterOrEqual(t, res.RemainingLife, 0.0)
			assert.LessOrEqual(t, res.RemainingLife, tool.LifeLimit)
		})
	}
}
