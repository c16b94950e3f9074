// Package volume provides functionality to read the host machine's master
// output volume.
package volume

import (
	"go.uber.org/zap"
)

const (
	// FallbackVolume is reported when the OS query fails. A single bad
	// sample must not halt monitoring, so the sampler substitutes a
	// mid-range value and keeps going.
	FallbackVolume = 50

	minVolume = 0
	maxVolume = 100
)

// Sampler reads the system output volume and shields callers from query
// failures.
type Sampler struct {
	logger *zap.Logger
	read   func() (int, error)
}

// NewSampler creates a Sampler backed by the platform volume query.
func NewSampler(logger *zap.Logger) *Sampler {
	return &Sampler{
		logger: logger,
		read:   readSystemVolume,
	}
}

// Sample returns the current output volume as a percentage (0-100). It
// never fails: any query error is logged and FallbackVolume is returned.
func (s *Sampler) Sample() int {
	v, err := s.read()
	if err != nil {
		s.logger.Warn("volume query failed, using fallback",
			zap.Int("fallback", FallbackVolume),
			zap.Error(err))
		return FallbackVolume
	}
	return clamp(v)
}

func clamp(v int) int {
	if v < minVolume {
		return minVolume
	}
	if v > maxVolume {
		return maxVolume
	}
	return v
}
