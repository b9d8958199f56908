package services

import (
	"fmt"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"
)

// FormatOrderNumber renders the human-readable order identifier
// "ORD-YYYYMMDD-NNNN" for the given meal day and daily sequence number.
// The sequence restarts at 1 each calendar day; allocation itself is the
// repository's per-day atomic counter, which keeps concurrent same-day
// creations from ever sharing a number. The four-digit padding widens
// naturally past 9999.
func FormatOrderNumber(day kernel.Day, sequence int) (string, error) {
	if sequence < 1 {
		return "", errs.NewValueIsOutOfRangeError("sequence", sequence, 1, 9999)
	}
	return fmt.Sprintf("ORD-%s-%04d", day.Compact(), sequence), nil
}
