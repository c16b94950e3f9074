// Package bridge translates system volume changes into remote-control
// actions. Raising or lowering the volume cycles through choices, driving
// it to zero confirms the current choice.
package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakehasgithubnow/MentraOS-Extended-App/pkg/model"
)

const (
	// DefaultPollInterval is how often the system volume is sampled.
	DefaultPollInterval = 300 * time.Millisecond

	// errorPause is how long the loop rests after an unclassified tick
	// failure before resuming.
	errorPause = time.Second
)

// Sampler returns the current output volume as a percentage. Implementations
// must not fail; bad readings are substituted internally.
type Sampler interface {
	Sample() int
}

// Reporter delivers one action to the control server.
type Reporter interface {
	Report(ctx context.Context, action, direction string) error
}

// Bridge runs the volume polling loop.
type Bridge struct {
	logger   *zap.Logger
	sampler  Sampler
	reporter Reporter
	interval time.Duration

	// lastVol holds the most recent non-zero sample used as the comparison
	// baseline. It is frozen while muted, so the first sample after unmute
	// is compared against the pre-mute level.
	lastVol int
	muted   bool
}

// New creates a Bridge polling at DefaultPollInterval.
func New(logger *zap.Logger, sampler Sampler, reporter Reporter) *Bridge {
	return &Bridge{
		logger:   logger,
		sampler:  sampler,
		reporter: reporter,
		interval: DefaultPollInterval,
	}
}

// Run polls until ctx is cancelled. The loop survives sampling failures,
// delivery failures, and panicking ticks; only cancellation stops it.
func (b *Bridge) Run(ctx context.Context) {
	b.lastVol = b.sampler.Sample()
	b.logger.Info("bridge started",
		zap.Int("volume", b.lastVol),
		zap.Duration("interval", b.interval))

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bridge stopped")
			return
		case <-ticker.C:
			b.safeTick(ctx)
		}
	}
}

// safeTick shields the loop from a panicking tick: log, pause, resume.
func (b *Bridge) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("tick failed", zap.Any("panic", r))
			select {
			case <-ctx.Done():
			case <-time.After(errorPause):
			}
		}
	}()
	b.tick(ctx)
}

// tick evaluates one sample against the previous state and reports the
// resulting actions, if any.
func (b *Bridge) tick(ctx context.Context) {
	v := b.sampler.Sample()

	// Volume driven to zero confirms the current choice. Edge-triggered:
	// fires once per mute engagement, not continuously while held at zero.
	if v == 0 && !b.muted {
		b.report(ctx, model.ActionSelect, "")
		b.muted = true
	} else if v > 0 {
		b.muted = false
	}

	// A change between non-zero samples cycles the choices. A drop to zero
	// is handled exclusively by the select branch above.
	if v != b.lastVol && v > 0 {
		direction := model.DirectionDown
		if v > b.lastVol {
			direction = model.DirectionUp
		}
		b.report(ctx, model.ActionCycle, direction)
		b.lastVol = v
	}
}

// report delivers one action, logging and dropping any delivery failure so
// the next tick is unaffected.
func (b *Bridge) report(ctx context.Context, action, direction string) {
	fields := []zap.Field{zap.String("action", action)}
	if direction != "" {
		fields = append(fields, zap.String("direction", direction))
	}
	b.logger.Info("action", fields...)

	if err := b.reporter.Report(ctx, action, direction); err != nil {
		b.logger.Warn("action delivery failed", append(fields, zap.Error(err))...)
	}
}
