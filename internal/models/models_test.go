package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickIsLoss(t *testing.T) {
	tests := []struct {
		result string
		want   bool
	}{
		{"loss", true},
		{"LOSS", true},
		{"Loss", true},
		{"win", false},
		{"pending", false},
		{"", false},
	}

	for _, tt := range tests {
		pick := &Pick{Result: tt.result}
		assert.Equal(t, tt.want, pick.IsLoss(), "result %q", tt.result)
	}
}

func TestOddsSnapshotProbability(t *testing.T) {
	snapshot := OddsSnapshot{
		"g1": {"Duke": 0.62, "UNC": 0.38},
	}

	p, ok := snapshot.Probability("g1", "Duke")
	assert.True(t, ok)
	assert.Equal(t, 0.62, p)

	_, ok = snapshot.Probability("g1", "Kansas")
	assert.False(t, ok)

	_, ok = snapshot.Probability("g2", "Duke")
	assert.False(t, ok)

	var empty OddsSnapshot
	_, ok = empty.Probability("g1", "Duke")
	assert.False(t, ok)
}

func TestIsTerminalRunStatus(t *testing.T) {
	assert.False(t, IsTerminalRunStatus(RunStatusStarted))
	assert.True(t, IsTerminalRunStatus(RunStatusCompleted))
	assert.True(t, IsTerminalRunStatus(RunStatusFailed))
	assert.True(t, IsTerminalRunStatus(RunStatusSkipped))
	assert.False(t, IsTerminalRunStatus("unknown"))
}
