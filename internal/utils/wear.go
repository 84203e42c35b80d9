package utils

import (
	"fmt"
	"time"

	"toolcrib-backend/internal/domain"
)

// WearResult is the outcome of applying one closed usage interval to a tool.
type WearResult struct {
	Hours           float64
	RemainingLife   float64
	TotalUsageHours float64
	BelowThreshold  bool
}

// ComputeWear converts a closed interval into elapsed hours. Hours are a
// floating-point quantity; no rounding happens here — presentation rounds.
func ComputeWear(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("interval [%s, %s]: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), domain.ErrInvalidInterval)
	}
	return end.Sub(start).Hours(), nil
}

// ApplyWear computes the tool's post-session life balance. RemainingLife is
// clamped at zero, never wrapped; TotalUsageHours accumulates the full
// elapsed hours even when the life balance bottoms out. The caller persists
// the returned values.
func ApplyWear(tool *domain.Tool, hours float64) WearResult {
	remaining := tool.RemainingLife - hours
	if remaining < 0 {
		remaining = 0
	}
	return WearResult{
		Hours:           hours,
		RemainingLife:   remaining,
		TotalUsageHours: tool.TotalUsageHours + hours,
		BelowThreshold:  remaining <= tool.ThresholdLimit,
	}
}
