package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/jakehasgithubnow/MentraOS-Extended-App/pkg/model"
)

type scriptedSampler struct {
	samples []int
	pos     int
}

func (s *scriptedSampler) Sample() int {
	if s.pos >= len(s.samples) {
		return s.samples[len(s.samples)-1]
	}
	v := s.samples[s.pos]
	s.pos++
	return v
}

type reportedEvent struct {
	action    string
	direction string
}

type capturingReporter struct {
	events []reportedEvent
	err    error
}

func (r *capturingReporter) Report(ctx context.Context, action, direction string) error {
	r.events = append(r.events, reportedEvent{action, direction})
	return r.err
}

type panickingReporter struct{}

func (panickingReporter) Report(ctx context.Context, action, direction string) error {
	panic("reporter exploded")
}

// newTestBridge returns a bridge primed with baseline volume 50 that will
// observe the given samples on successive ticks.
func newTestBridge(t *testing.T, rep Reporter, samples ...int) *Bridge {
	b := New(zaptest.NewLogger(t), &scriptedSampler{samples: samples}, rep)
	b.lastVol = 50
	return b
}

func runTicks(b *Bridge, n int) {
	for i := 0; i < n; i++ {
		b.tick(context.Background())
	}
}

func assertEvents(t *testing.T, got []reportedEvent, want []reportedEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestBridge_Tick_CycleUpAndDown(t *testing.T) {
	rep := &capturingReporter{}
	b := newTestBridge(t, rep, 60, 60, 40)
	runTicks(b, 3)

	assertEvents(t, rep.events, []reportedEvent{
		{model.ActionCycle, model.DirectionUp},
		{model.ActionCycle, model.DirectionDown},
	})
}

func TestBridge_Tick_RepeatedSamplesEmitNothing(t *testing.T) {
	rep := &capturingReporter{}
	b := newTestBridge(t, rep, 50, 50, 50)
	runTicks(b, 3)

	if len(rep.events) != 0 {
		t.Errorf("expected no events for unchanged volume, got %v", rep.events)
	}
}

func TestBridge_Tick_MuteSelectsOnce(t *testing.T) {
	rep := &capturingReporter{}
	b := newTestBridge(t, rep, 0, 0, 30)
	runTicks(b, 3)

	// 50->0 selects without a cycle, 0->0 is silent, 0->30 cycles against
	// the frozen baseline of 50.
	assertEvents(t, rep.events, []reportedEvent{
		{model.ActionSelect, ""},
		{model.ActionCycle, model.DirectionDown},
	})
}

func TestBridge_Tick_SelectRefiresAfterUnmute(t *testing.T) {
	rep := &capturingReporter{}
	b := newTestBridge(t, rep, 0, 30, 0)
	runTicks(b, 3)

	// Each mute engagement is a fresh edge.
	assertEvents(t, rep.events, []reportedEvent{
		{model.ActionSelect, ""},
		{model.ActionCycle, model.DirectionDown},
		{model.ActionSelect, ""},
	})
}

func TestBridge_Tick_DropToZeroIsNotACycle(t *testing.T) {
	rep := &capturingReporter{}
	b := newTestBridge(t, rep, 0)
	runTicks(b, 1)

	assertEvents(t, rep.events, []reportedEvent{
		{model.ActionSelect, ""},
	})
	if b.lastVol != 50 {
		t.Errorf("baseline must stay frozen while muted, got %d", b.lastVol)
	}
}

func TestBridge_Tick_DeliveryFailureDoesNotBlockNextTick(t *testing.T) {
	rep := &capturingReporter{err: errors.New("connection refused")}
	b := newTestBridge(t, rep, 60, 40)
	runTicks(b, 2)

	assertEvents(t, rep.events, []reportedEvent{
		{model.ActionCycle, model.DirectionUp},
		{model.ActionCycle, model.DirectionDown},
	})
	if b.lastVol != 40 {
		t.Errorf("state must advance despite delivery failures, got lastVol %d", b.lastVol)
	}
}

func TestBridge_SafeTick_RecoversPanic(t *testing.T) {
	b := newTestBridge(t, panickingReporter{}, 0, 30)

	// Cancelled context skips the post-failure pause.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b.safeTick(ctx)

	// The loop must keep processing after a panicking tick.
	rep := &capturingReporter{}
	b.reporter = rep
	b.safeTick(ctx)

	if len(rep.events) == 0 {
		t.Error("expected the tick after a panic to report normally")
	}
}

func TestBridge_Run_StopsOnCancel(t *testing.T) {
	rep := &capturingReporter{}
	b := newTestBridge(t, rep, 50)
	b.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
