package services

import "fmt"

// NotFoundError reports that a referenced document does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ForbiddenError reports that the actor lacks permission for the
// requested transition. It is always surfaced, never downgraded to a
// no-op.
type ForbiddenError struct {
	Kind   string
	ID     string
	Actor  string
	Status string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %s may not move %s %s to %s", e.Actor, e.Kind, e.ID, e.Status)
}

// InvalidTransitionError reports a transition that is not legal from the
// current state. Current carries the authoritative status so callers can
// resynchronize their view.
type InvalidTransitionError struct {
	Kind      string
	ID        string
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s cannot move from %s to %s", e.Kind, e.ID, e.Current, e.Requested)
}

// NotificationDeliveryError reports that a state transition succeeded but
// the follow-up notification write or push failed. The transition itself
// stands; this is logged and never returned as the operation's error.
type NotificationDeliveryError struct {
	Kind string
	ID   string
	Err  error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("notification for %s %s was not delivered: %v", e.Kind, e.ID, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error { return e.Err }

// AggregationInputError marks a malformed order skipped during dashboard
// aggregation.
type AggregationInputError struct {
	OrderID string
	Reason  string
}

func (e *AggregationInputError) Error() string {
	return fmt.Sprintf("skipping order %s in aggregation: %s", e.OrderID, e.Reason)
}
