package orchestrator

// ActionState is one running action instance inside the current beat.
type ActionState interface {
	// Tick advances the action by dtMs milliseconds.
	Tick(dtMs int)
	// Skip fast-forwards the action to its final state.
	Skip()
	// Blocking reports whether the action prevents the beat from completing.
	Blocking() bool
	// Done reports whether the action can be removed from the active list.
	Done() bool
}

// Advancer is implemented by states that react to player input.
type Advancer interface {
	Advance()
}

// Signaler is implemented by states waiting for an external signal.
type Signaler interface {
	Signal(key string)
}

// composite is implemented by states that own child states.
type composite interface {
	children() []ActionState
}

// Lifecycle is the state of an orchestrator session.
type Lifecycle string

const (
	LifecycleUnloaded Lifecycle = "unloaded"
	LifecycleRunning  Lifecycle = "running"
	LifecyclePaused   Lifecycle = "paused"
	LifecycleStopped  Lifecycle = "stopped"
	LifecycleFinished Lifecycle = "finished"
)

// BeatPhase tracks the beat under the cursor.
type BeatPhase string

const (
	BeatNotStarted BeatPhase = "not_started"
	BeatActive     BeatPhase = "active"
	BeatFinished   BeatPhase = "finished"
)

// walk visits every state, descending into composites.
func walk(states []ActionState, fn func(ActionState)) {
	for _, s := range states {
		fn(s)
		if c, ok := s.(composite); ok {
			walk(c.children(), fn)
		}
	}
}
