// Package player opens looping audio handles on the system speaker.
package player

import (
	"context"
	"errors"
	"math"
)

var (
	ErrClosed            = errors.New("handle closed")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Options configures a handle at open time.
type Options struct {
	Loop     bool
	Autoplay bool
	Volume   float64
}

// Engine opens audio handles.
type Engine interface {
	Open(ctx context.Context, uri string, opts Options) (Handle, error)
}

// Handle controls one opened stream. Handles are not reusable after Close.
type Handle interface {
	Play() error
	Pause() error
	SetVolume(level float64) error
	Stop() error
	Close() error
}

// ClampLevel bounds a volume level to [0, 1].
func ClampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
