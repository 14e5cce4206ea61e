// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timer

import "time"

// EstimateETA estimates the time left for a job that took elapsed to complete
// progress out of end units, assuming the remaining units cost the same on
// average. It returns zero before any progress and once progress reaches end.
func EstimateETA(elapsed time.Duration, progress, end uint64) time.Duration {
	if progress == 0 || progress >= end {
		return 0
	}
	total := time.Duration(float64(elapsed) * float64(end) / float64(progress))
	return (total - elapsed).Round(time.Millisecond)
}
