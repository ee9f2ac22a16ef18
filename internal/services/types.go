package services

import (
	"context"
	"time"
)

// CheckoutSession is a normalized view of a payment provider checkout
// session, reduced to the fields the reconciler projects onto a profile.
type CheckoutSession struct {
	ID             string
	CustomerID     string
	SubscriptionID string
	PriceIDs       []string
}

// PaymentProvider abstracts the payment provider API surface used here.
type PaymentProvider interface {
	// CheckoutSession retrieves a checkout session with its line-item
	// price ids; an unknown session id yields an InvalidSession error.
	CheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// PortalURL creates a billing self-service portal session and
	// returns its URL.
	PortalURL(ctx context.Context, customerID, returnURL string) (string, error)
}

// SubscriptionEvent is a verified, provider-neutral webhook event.
// Signature checking happens before this is ever constructed.
type SubscriptionEvent struct {
	Type             string
	SessionID        string
	Email            string
	CustomerID       string
	SubscriptionID   string
	PriceID          string
	Status           string
	CurrentPeriodEnd *time.Time
}

// Webhook event types the receiver dispatches on.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// SubscriptionSnapshot is the reconciler's result projected back to the caller.
type SubscriptionSnapshot struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

// ChatProvider abstracts the generative-AI backend.
type ChatProvider interface {
	// Complete returns a single completion for the prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// Stream invokes fn for each completion chunk as it arrives.
	Stream(ctx context.Context, system, prompt string, fn func(chunk string) error) error
}
