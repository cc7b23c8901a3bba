package monitor

import (
	"context"
	"errors"
)

// ErrMockExhausted is returned by a mock source whose script has run out.
// The monitor treats it like any other acquisition failure: the tick is
// skipped and the loop keeps running.
var ErrMockExhausted = errors.New("mock source exhausted")

// MockStep is one scripted tick: either a raw snapshot block or an
// injected acquisition failure.
type MockStep struct {
	Raw string
	Err error
}

// MockSource replays a scripted sequence of snapshots, one step per
// Acquire call. Used for tests and for the demo (-mock) mode.
type MockSource struct {
	steps []MockStep
	pos   int

	// HoldLast makes the source repeat its final successful step once
	// the script is exhausted instead of failing every subsequent tick.
	// The demo mode uses this so the table settles rather than flapping
	// into a failed health state.
	HoldLast bool
}

func NewMockSource(steps []MockStep) *MockSource {
	return &MockSource{steps: steps}
}

func (s *MockSource) Name() string { return "mock" }

func (s *MockSource) Acquire(context.Context) (string, error) {
	if s.pos >= len(s.steps) {
		if s.HoldLast {
			if last, ok := s.lastSuccessful(); ok {
				return last, nil
			}
		}
		return "", ErrMockExhausted
	}
	step := s.steps[s.pos]
	s.pos++
	if step.Err != nil {
		return "", step.Err
	}
	return step.Raw, nil
}

func (s *MockSource) lastSuccessful() (string, bool) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		if s.steps[i].Err == nil {
			return s.steps[i].Raw, true
		}
	}
	return "", false
}

// DemoScript returns the scripted route tables used by the -mock demo
// mode: a steady table, then a changed next hop plus a new subnet.
func DemoScript() []MockStep {
	before := `default via 192.168.1.1 dev eth0
192.168.1.0/24 dev eth0 proto kernel scope link src 192.168.1.100
172.16.0.0/16 via 192.168.1.1 dev eth0
10.0.0.0/8 via 192.168.1.1 dev eth0
`
	after := `default via 192.168.1.1 dev eth0
192.168.1.0/24 dev eth0 proto kernel scope link src 192.168.1.100
172.16.0.0/16 via 192.168.1.1 dev eth0
10.0.0.0/8 via 192.168.1.2 dev eth0
192.168.2.0/24 via 192.168.1.1 dev eth0
`
	return []MockStep{
		{Raw: before},
		{Raw: before},
		{Raw: after},
	}
}
