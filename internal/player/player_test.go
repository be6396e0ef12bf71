package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLevel(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{1.7, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ClampLevel(tt.in), 1e-9, "ClampLevel(%v)", tt.in)
	}
}

func TestLevelToVolume(t *testing.T) {
	assert.InDelta(t, -10.0, levelToVolume(0), 1e-9)
	assert.InDelta(t, -1.0, levelToVolume(0.5), 1e-9)
	assert.InDelta(t, -2.0, levelToVolume(0.25), 1e-9)
	assert.InDelta(t, 0.0, levelToVolume(1), 1e-9)
	assert.InDelta(t, 0.0, levelToVolume(3), 1e-9)
}
