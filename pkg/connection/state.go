package connection

import "sync/atomic"

// State describes the connection's position in its lifecycle. Transitions
// are monotonic: once shutdown begins there is no way back.
type State int32

// Lifecycle states in order.
const (
	StateConnecting State = iota
	StateReady
	StateShuttingDown
	StateShutDown
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting-down"
	case StateShutDown:
		return "shut-down"
	default:
		return "unknown"
	}
}

// stateMachine guards lifecycle transitions with a forward-only CAS so the
// shutdown race is bounded to a late transport rejection, never a backward
// transition.
type stateMachine struct {
	value atomic.Int32
}

func (m *stateMachine) current() State {
	return State(m.value.Load())
}

// advance moves to the target state. It reports false when an equal or later
// state was already reached, leaving that state untouched.
func (m *stateMachine) advance(target State) bool {
	for {
		current := m.value.Load()
		if current >= int32(target) {
			return false
		}

		if m.value.CompareAndSwap(current, int32(target)) {
			return true
		}
	}
}
