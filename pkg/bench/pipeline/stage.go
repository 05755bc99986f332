package pipeline

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/logger"
)

// State of a pipeline stage. Stages only move forward:
// Idle -> Running -> Draining -> Terminated.
type State int32

const (
	Idle State = iota
	Running
	Draining
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Stage tracks the lifecycle of one side of the pipeline.
type Stage struct {
	name  string
	state atomic.Int32
}

func newStage(name string) *Stage {
	return &Stage{name: name}
}

func (s *Stage) State() State {
	return State(s.state.Load())
}

// advance moves the stage to next unless it is already there or beyond.
func (s *Stage) advance(next State) {
	for {
		cur := s.state.Load()
		if State(cur) >= next {
			return
		}
		if s.state.CompareAndSwap(cur, int32(next)) {
			logger.Debug("stage transition", zap.String("stage", s.name),
				zap.Stringer("from", State(cur)), zap.Stringer("to", next))
			return
		}
	}
}
