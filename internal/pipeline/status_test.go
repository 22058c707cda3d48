package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusExitCode(t *testing.T) {
	tests := []struct {
		status Status
		want   int
	}{
		{StatusStable, ExitPass},
		{StatusQualityFailed, ExitQualityFailed},
		{StatusDriftTriggered, ExitDriftTriggered},
		{StatusError, ExitError},
		{Status("bogus"), ExitError},
		{Status(""), ExitError},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.ExitCode())
		})
	}
}

func TestExitCodesDistinct(t *testing.T) {
	// One integer disambiguates all four outcomes.
	seen := make(map[int]Status)
	for _, s := range []Status{StatusStable, StatusQualityFailed, StatusDriftTriggered, StatusError} {
		code := s.ExitCode()
		prev, dup := seen[code]
		assert.False(t, dup, "status %s and %s share exit code %d", prev, s, code)
		seen[code] = s
	}
}
