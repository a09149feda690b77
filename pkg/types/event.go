package types

import "time"

// CaseEventType defines the type of event emitted while a case runs.
type CaseEventType string

const (
	EventTypeCaseStart      CaseEventType = "case_start"      // EventTypeCaseStart indicates setup of a case has begun.
	EventTypeSessionOpened  CaseEventType = "session_opened"  // EventTypeSessionOpened indicates the browser session is live.
	EventTypeStepStart      CaseEventType = "step_start"      // EventTypeStepStart indicates a named step is about to run.
	EventTypeStepEnd        CaseEventType = "step_end"        // EventTypeStepEnd indicates a named step finished successfully.
	EventTypeStepFailed     CaseEventType = "step_failed"     // EventTypeStepFailed indicates a named step returned an error.
	EventTypeStateChange    CaseEventType = "state_change"    // EventTypeStateChange indicates the case moved to a new State.
	EventTypeSessionClosed  CaseEventType = "session_closed"  // EventTypeSessionClosed indicates teardown released the session.
	EventTypeTeardownFailed CaseEventType = "teardown_failed" // EventTypeTeardownFailed indicates releasing the session returned an error.
	EventTypeCaseEnd        CaseEventType = "case_end"        // EventTypeCaseEnd indicates the case finished, passed or failed.
)

// CaseEvent is one entry in the timeline of a case.
type CaseEvent struct {
	// Type indicates the kind of event.
	Type CaseEventType `json:"type"`

	// Step names the step for step events.
	Step string `json:"step,omitempty"`

	// State is set for state change events.
	State State `json:"state,omitempty"`

	// Message holds free-form detail, including error text.
	Message string `json:"message,omitempty"`

	// Timestamp is when the event was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// NewStepStartEvent creates a step start event.
func NewStepStartEvent(step string) *CaseEvent {
	return &CaseEvent{Type: EventTypeStepStart, Step: step, Timestamp: time.Now()}
}

// NewStepEndEvent creates a step end event.
func NewStepEndEvent(step string) *CaseEvent {
	return &CaseEvent{Type: EventTypeStepEnd, Step: step, Timestamp: time.Now()}
}

// NewStepFailedEvent creates a step failure event carrying the error text.
func NewStepFailedEvent(step string, err error) *CaseEvent {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &CaseEvent{Type: EventTypeStepFailed, Step: step, Message: msg, Timestamp: time.Now()}
}

// NewStateChangeEvent creates a state change event.
func NewStateChangeEvent(s State) *CaseEvent {
	return &CaseEvent{Type: EventTypeStateChange, State: s, Timestamp: time.Now()}
}

// NewCaseEvent creates an event of the given type with a message.
func NewCaseEvent(eventType CaseEventType, message string) *CaseEvent {
	return &CaseEvent{Type: eventType, Message: message, Timestamp: time.Now()}
}

// IsFailure returns true for events that record an error.
func (e *CaseEvent) IsFailure() bool {
	return e.Type == EventTypeStepFailed || e.Type == EventTypeTeardownFailed
}
