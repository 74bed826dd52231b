// Package payment wraps the hosted checkout provider behind a small
// interface so the billing service and its tests never touch Stripe types.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// CheckoutSession is the subset of a created checkout session the API
// surface needs.
type CheckoutSession struct {
	ID  string
	URL string
}

// SubscriptionResult describes a completed checkout looked up by session ID.
type SubscriptionResult struct {
	CustomerID    string
	CustomerEmail string
	CustomerName  string
	Paid          bool
}

// CheckoutProvider creates hosted checkout sessions and resolves completed
// ones back into customer state.
type CheckoutProvider interface {
	// CreateCheckoutSession starts a subscription checkout for the given
	// price. An empty priceID selects the configured default plan.
	CreateCheckoutSession(ctx context.Context, email, customerName, priceID string) (*CheckoutSession, error)
	ConfirmSubscription(ctx context.Context, sessionID string) (*SubscriptionResult, error)
}

type stripeProvider struct {
	api        *client.API
	priceID    string
	successURL string
	cancelURL  string
}

// NewStripeProvider creates a CheckoutProvider backed by the Stripe API.
// successURL receives a {CHECKOUT_SESSION_ID} placeholder so the success
// page can confirm the subscription.
func NewStripeProvider(secretKey, priceID, successURL, cancelURL string) CheckoutProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeProvider{
		api:        api,
		priceID:    priceID,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (p *stripeProvider) CreateCheckoutSession(ctx context.Context, email, customerName, priceID string) (*CheckoutSession, error) {
	if priceID == "" {
		priceID = p.priceID
	}
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(p.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("customerName", customerName)

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *stripeProvider) ConfirmSubscription(ctx context.Context, sessionID string) (*SubscriptionResult, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	sess, err := p.api.CheckoutSessions.Get(sessionID, getParams)
	if err != nil {
		return nil, fmt.Errorf("retrieving checkout session: %w", err)
	}

	result := &SubscriptionResult{
		CustomerName: sess.Metadata["customerName"],
		Paid:         sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if sess.CustomerDetails != nil {
		result.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.Customer != nil {
		result.CustomerID = sess.Customer.ID
	}
	return result, nil
}
