package types

import (
	"fmt"
	"sync"
	"time"
)

// State is a point in the lifecycle of one verification case.
type State string

const (
	StateUnloaded         State = "unloaded"          // StateUnloaded is the state before a session exists.
	StateLoaded           State = "loaded"            // StateLoaded means the target page has been navigated to.
	StateConsentCleared   State = "consent_cleared"   // StateConsentCleared means the terms/consent control was acknowledged.
	StateEntered          State = "entered"           // StateEntered means the Play control was clicked.
	StateHelpVisible      State = "help_visible"      // StateHelpVisible means the help dialog has been located.
	StateHelpDismissed    State = "help_dismissed"    // StateHelpDismissed means the help dialog close control was clicked.
	StateBoardInteractive State = "board_interactive" // StateBoardInteractive means the board accepts keyboard input.
	StateSubmittedValid   State = "submitted_valid"   // StateSubmittedValid means an accepted word was submitted.
	StateSubmittedInvalid State = "submitted_invalid" // StateSubmittedInvalid means a rejected word was submitted.
	StateClosed           State = "closed"            // StateClosed is terminal; the session was released.
)

var stateOrder = map[State]int{
	StateUnloaded:         0,
	StateLoaded:           1,
	StateConsentCleared:   2,
	StateEntered:          3,
	StateHelpVisible:      4,
	StateHelpDismissed:    5,
	StateBoardInteractive: 6,
	StateSubmittedValid:   7,
	StateSubmittedInvalid: 7,
}

// CanTransition reports whether a case may move from one state to another.
// Transitions advance exactly one step, except that the consent step may be
// skipped and a submitted board may be submitted again. Closed is reachable
// from anywhere.
func CanTransition(from, to State) bool {
	if to == StateClosed {
		return from != StateClosed
	}
	if from == StateClosed {
		return false
	}
	fromIdx, okFrom := stateOrder[from]
	toIdx, okTo := stateOrder[to]
	if !okFrom || !okTo {
		return false
	}
	if from == StateLoaded && to == StateEntered {
		return true
	}
	if fromIdx == stateOrder[StateSubmittedValid] && toIdx == fromIdx {
		return true
	}
	return toIdx == fromIdx+1
}

// Transition records one state change.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

// TransitionError is returned when a case attempts an illegal state change.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal state transition %s -> %s", e.From, e.To)
}

// Tracker follows the state of a single case. The zero value is not usable;
// create one with NewTracker.
type Tracker struct {
	mu      sync.Mutex
	current State
	history []Transition
}

// NewTracker creates a tracker in the unloaded state.
func NewTracker() *Tracker {
	return &Tracker{current: StateUnloaded}
}

// Advance moves the tracker to the given state.
func (t *Tracker) Advance(to State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !CanTransition(t.current, to) {
		return &TransitionError{From: t.current, To: to}
	}
	t.history = append(t.history, Transition{From: t.current, To: to, At: time.Now()})
	t.current = to
	return nil
}

// Current returns the current state.
func (t *Tracker) Current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Reached reports whether the case has passed through the given state.
func (t *Tracker) Reached(s State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == s {
		return true
	}
	for _, tr := range t.history {
		if tr.To == s {
			return true
		}
	}
	return false
}

// History returns a copy of the recorded transitions.
func (t *Tracker) History() []Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Transition, len(t.history))
	copy(out, t.history)
	return out
}
