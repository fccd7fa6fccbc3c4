package animation

import "time"

// DefaultConfig returns the breathing box defaults.
func DefaultConfig() Config {
	return Config{
		FrameInterval: time.Second / 30,
		MinScale:      0.75,
		MaxScale:      1,
	}
}
