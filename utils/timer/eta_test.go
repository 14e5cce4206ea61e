// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEstimateETA(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		progress uint64
		end      uint64
		expected time.Duration
	}{
		{
			name:     "half way",
			elapsed:  3 * time.Second,
			progress: 1,
			end:      2,
			expected: 3 * time.Second,
		},
		{
			name:     "one of four",
			elapsed:  time.Second,
			progress: 1,
			end:      4,
			expected: 3 * time.Second,
		},
		{
			name:     "no progress",
			elapsed:  time.Second,
			progress: 0,
			end:      4,
			expected: 0,
		},
		{
			name:     "done",
			elapsed:  time.Second,
			progress: 4,
			end:      4,
			expected: 0,
		},
		{
			name:     "rounded",
			elapsed:  time.Second,
			progress: 3,
			end:      4,
			expected: 333 * time.Millisecond,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, EstimateETA(test.elapsed, test.progress, test.end))
		})
	}
}
