package donation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/adotapet/adotapet-backend/internal/models"
)

// State is the visible state of one donation session.
type State string

const (
	StateEntry          State = "ENTRY"
	StateSubmitting     State = "SUBMITTING"
	StatePaymentDisplay State = "PAYMENT_DISPLAY"
)

// allowedTransitions defines the valid state transitions. Submitting falls
// back to Entry on any failure; PaymentDisplay only leaves through reset.
var allowedTransitions = map[State][]State{
	StateEntry:          {StateSubmitting},
	StateSubmitting:     {StatePaymentDisplay, StateEntry},
	StatePaymentDisplay: {StateEntry},
}

func canTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not resolved. The pipeline is not executed a second time.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrFormLocked is returned for field updates outside the Entry state.
var ErrFormLocked = errors.New("form is not editable in the current state")

// ValidationError carries the ordered violation list from Form.Validate.
// Callers surface only the first entry.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return e.Violations[0].Message
}

// First returns the highest-priority violation message.
func (e *ValidationError) First() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].Message
}

// Submitter runs the gateway pipeline for a validated request.
type Submitter interface {
	Submit(ctx context.Context, req *Request) (*models.PixCharge, error)
}

// Machine owns one donation form and drives it through
// Entry -> Submitting -> PaymentDisplay. It holds at most one request and at
// most one charge at any time; the in-flight flag makes Submit exclusive.
type Machine struct {
	mu        sync.Mutex
	state     State
	inFlight  bool
	form      *Form
	charge    *models.PixCharge
	submitter Submitter
}

func NewMachine(submitter Submitter) *Machine {
	return &Machine{
		state:     StateEntry,
		form:      NewForm(),
		submitter: submitter,
	}
}

// State returns the current visible state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Charge returns the PIX charge held in PaymentDisplay, or nil.
func (m *Machine) Charge() *models.PixCharge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.charge
}

// Update mutates form fields through fn. Only legal in Entry: the form is
// immutable while submitting and while the payment is displayed.
func (m *Machine) Update(fn func(f *Form)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateEntry {
		return ErrFormLocked
	}
	fn(m.form)
	return nil
}

// Snapshot returns a copy of the current form values for state reads.
func (m *Machine) Snapshot() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.form
}

// Submit validates the form and, if clean, runs the gateway pipeline.
// A second call while one is in flight returns ErrSubmissionInFlight without
// executing anything. On failure the machine falls back to Entry with every
// field retained so the user can retry without re-entering data.
func (m *Machine) Submit(ctx context.Context) (*models.PixCharge, error) {
	m.mu.Lock()
	if m.inFlight || m.state == StateSubmitting {
		m.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if m.state != StateEntry {
		m.mu.Unlock()
		return nil, fmt.Errorf("cannot submit from state %s", m.state)
	}
	if v := m.form.Validate(); len(v) > 0 {
		m.mu.Unlock()
		return nil, &ValidationError{Violations: v}
	}
	req := m.form.Request()
	m.transition(StateSubmitting)
	m.inFlight = true
	m.mu.Unlock()

	charge, err := m.submitter.Submit(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if err != nil {
		m.transition(StateEntry)
		return nil, err
	}
	m.charge = charge
	m.transition(StatePaymentDisplay)
	return charge, nil
}

// Reset clears the request and the charge and returns to Entry. Legal from
// PaymentDisplay and, as a convenience for abandoned entry forms, from Entry
// itself; a submitting machine cannot be reset.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	m.form = NewForm()
	m.charge = nil
	m.state = StateEntry
	return nil
}

// transition moves to the target state, panicking on a transition the table
// does not allow. All call sites hold the lock and are table-checked, so a
// panic here is a programming error, not a runtime condition.
func (m *Machine) transition(to State) {
	if !canTransition(m.state, to) {
		panic(fmt.Sprintf("invalid state transition %s -> %s", m.state, to))
	}
	m.state = to
}
