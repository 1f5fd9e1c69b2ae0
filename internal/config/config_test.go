package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-clock/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"FaceManifest", config.FaceManifest},
		{"DefaultDescPattern", config.DefaultDescPattern},
		{"UnknownZoneName", config.UnknownZoneName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDialGeometry checks that the hand steps cover exactly one revolution.
func TestDialGeometry(t *testing.T) {
	assert.Equal(t, 360.0, config.DegreesPerHour*config.HoursOnDial)
	assert.Equal(t, 360.0, config.DegreesPerMinute*60)
	assert.Equal(t, 360.0, config.DegreesPerSecond*60)
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, config.TickQuantum)
	assert.Greater(t, config.ClockJumpThreshold, 0*time.Second)
	// A jump must exceed normal scheduling jitter between two checks.
	assert.Less(t, config.ClockJumpThreshold, config.ClockCheckInterval)
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second)
	assert.Less(t, config.MinPort, config.MaxPort)
}

// TestDefaultDescPattern_IsLayout verifies the fallback pattern is a Go reference layout.
func TestDefaultDescPattern_IsLayout(t *testing.T) {
	ts := time.Date(2025, 1, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "6:30 PM", ts.Format(config.DefaultDescPattern))
}
