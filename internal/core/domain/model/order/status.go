package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// Status is the lifecycle state of an order. Statuses form a single ordered
// pipeline and an order only ever moves forward along it:
//
//	AwaitingPayment ──> Confirmed ──> InPreparation ──> InTransit ──> Delivered
//	   (MarkPaid)        (Advance)       (Advance)        (Advance)
//
// Unknown (0) is never a valid lifecycle state; it catches uninitialized values.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// AwaitingPayment is the initial status of every new order.
	AwaitingPayment

	// Confirmed means payment was received.
	Confirmed

	// InPreparation means the kitchen is preparing the order.
	InPreparation

	// InTransit means the order left with a courier.
	InTransit

	// Delivered is terminal.
	Delivered
)

// pipeline lists the valid statuses in lifecycle order. The index of a status
// in this slice is its Step.
var pipeline = []Status{AwaitingPayment, Confirmed, InPreparation, InTransit, Delivered}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		AwaitingPayment: "AwaitingPayment",
		Confirmed:       "Confirmed",
		InPreparation:   "InPreparation",
		InTransit:       "InTransit",
		Delivered:       "Delivered",
	}
}

// getStatusLabels returns the customer-facing wording shown on the tracking screen.
func getStatusLabels() map[Status]string {
	//nolint:exhaustive // Unknown has no customer-facing label
	return map[Status]string{
		AwaitingPayment: "Pendiente de pago",
		Confirmed:       "Confirmado",
		InPreparation:   "En elaboración",
		InTransit:       "En ruta",
		Delivered:       "Entregado",
	}
}

// ParseStatus converts a persisted status name back into a Status.
func ParseStatus(name string) (Status, error) {
	for _, s := range pipeline {
		if s.String() == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// Validate accepts only the five lifecycle statuses.
func (s Status) Validate() error {
	if s.Step() < 0 {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the stable name used for persistence and the API.
// Invalid values render as "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Label returns the customer-facing label, or an empty string for invalid values.
func (s Status) Label() string {
	return getStatusLabels()[s]
}

// Step returns the zero-based position of s in the pipeline, or -1 when s is invalid.
func (s Status) Step() int {
	for i, p := range pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition can change s.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// IsPaid reports whether payment has been recorded for an order in status s.
func (s Status) IsPaid() bool {
	return s.Step() > AwaitingPayment.Step()
}

// MarkPaid records payment.
//
// Transitions:
//   - AwaitingPayment -> Confirmed
//   - any other valid status -> unchanged (payment already recorded)
//
// Returns an error only when s itself is invalid.
func (s Status) MarkPaid() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s == AwaitingPayment {
		return Confirmed, nil
	}
	return s, nil
}

// Advance moves one step forward along the fulfillment pipeline.
//
// Transitions:
//   - Confirmed -> InPreparation -> InTransit -> Delivered
//   - AwaitingPayment -> unchanged (only payment can confirm an order)
//   - Delivered -> unchanged
//
// Returns an error only when s itself is invalid.
func (s Status) Advance() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s == AwaitingPayment || s.IsTerminal() {
		return s, nil
	}
	return pipeline[s.Step()+1], nil
}
