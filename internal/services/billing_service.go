package services

import (
	"context"

	"github.com/careercompass/backend/internal/domain/profile"
	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/metrics"
)

// Price ids for the paid tiers. Any other price resolves to the basic plan.
const (
	priceStandard = "price_1R5AJ5SId25rPpE82jBjVexB"
	pricePremium  = "price_1R5AKpSId25rPpE8rNdySQsJ"
)

// PlanForPrice maps a provider price id to a plan tier
func PlanForPrice(priceID string) string {
	switch priceID {
	case priceStandard:
		return profile.PlanStandard
	case pricePremium:
		return profile.PlanPremium
	default:
		return profile.PlanBasic
	}
}

// BillingService reconciles subscription state between the payment
// provider and the profile store.
type BillingService struct {
	repo     profile.Repository
	provider PaymentProvider
	logger   *logger.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(repo profile.Repository, provider PaymentProvider, log *logger.Logger) *BillingService {
	return &BillingService{
		repo:     repo,
		provider: provider,
		logger:   log,
	}
}

// Reconcile verifies a completed checkout session against the provider
// and projects the resulting subscription onto the caller's profile.
// A missing profile is an error; reconcile never creates one. The
// webhook receiver remains authoritative, so a genuine write failure is
// logged and the verified snapshot still returned.
func (s *BillingService) Reconcile(ctx context.Context, email, sessionID string) (*SubscriptionSnapshot, error) {
	if sessionID == "" {
		return nil, errors.BadRequest("Session ID is required")
	}

	session, err := s.provider.CheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	plan := profile.PlanBasic
	for _, priceID := range session.PriceIDs {
		if p := PlanForPrice(priceID); p != profile.PlanBasic {
			plan = p
			break
		}
	}

	status := profile.StatusActive
	update := profile.Update{
		SubscriptionStatus: &status,
		SubscriptionPlan:   &plan,
	}
	if session.CustomerID != "" {
		update.StripeCustomerID = &session.CustomerID
	}
	if session.SubscriptionID != "" {
		update.StripeSubscriptionID = &session.SubscriptionID
	}

	if _, err := s.repo.Upsert(ctx, email, update, false); err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		s.logger.ErrorWithErr(err, "Failed to persist reconciled subscription")
	}

	return &SubscriptionSnapshot{Plan: plan, Status: status}, nil
}

// ApplyEvent applies a verified webhook event to the profile store
func (s *BillingService) ApplyEvent(ctx context.Context, event SubscriptionEvent) error {
	var err error
	switch event.Type {
	case EventCheckoutCompleted:
		err = s.applyCheckoutCompleted(ctx, event)
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		err = s.applySubscriptionChange(ctx, event)
	case EventSubscriptionDeleted:
		err = s.applySubscriptionDeleted(ctx, event)
	default:
		s.logger.Debugf("Ignoring webhook event type %s", event.Type)
		metrics.RecordWebhookEvent(event.Type, "ignored")
		return nil
	}

	if err != nil {
		metrics.RecordWebhookEvent(event.Type, "error")
		return err
	}
	metrics.RecordWebhookEvent(event.Type, "processed")
	return nil
}

func (s *BillingService) applyCheckoutCompleted(ctx context.Context, event SubscriptionEvent) error {
	email := event.Email
	if email == "" {
		if p, err := s.repo.FindByStripeCustomerID(ctx, event.CustomerID); err == nil {
			email = p.Email
		}
	}
	if email == "" {
		s.logger.Warnf("Checkout event %s has no resolvable profile", event.SessionID)
		return nil
	}

	plan := PlanForPrice(event.PriceID)
	if event.PriceID == "" && event.SessionID != "" {
		// Some checkout payloads omit line items; fetch them.
		if session, err := s.provider.CheckoutSession(ctx, event.SessionID); err == nil {
			for _, priceID := range session.PriceIDs {
				if p := PlanForPrice(priceID); p != profile.PlanBasic {
					plan = p
					break
				}
			}
		}
	}

	status := profile.StatusActive
	update := profile.Update{
		SubscriptionStatus: &status,
		SubscriptionPlan:   &plan,
	}
	if event.CustomerID != "" {
		update.StripeCustomerID = &event.CustomerID
	}
	if event.SubscriptionID != "" {
		update.StripeSubscriptionID = &event.SubscriptionID
	}

	_, err := s.repo.Upsert(ctx, email, update, true)
	return err
}

func (s *BillingService) applySubscriptionChange(ctx context.Context, event SubscriptionEvent) error {
	p, err := s.repo.FindByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warnf("Subscription event for unknown customer %s", event.CustomerID)
			return nil
		}
		return err
	}

	status := mapProviderStatus(event.Status)
	plan := PlanForPrice(event.PriceID)
	update := profile.Update{
		SubscriptionStatus: &status,
		SubscriptionPlan:   &plan,
	}
	if event.SubscriptionID != "" {
		update.StripeSubscriptionID = &event.SubscriptionID
	}
	if event.CurrentPeriodEnd != nil {
		update.CurrentPeriodEnd = event.CurrentPeriodEnd
	}

	_, err = s.repo.Upsert(ctx, p.Email, update, false)
	return err
}

func (s *BillingService) applySubscriptionDeleted(ctx context.Context, event SubscriptionEvent) error {
	p, err := s.repo.FindByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	status := profile.StatusCanceled
	plan := profile.PlanBasic
	update := profile.Update{
		SubscriptionStatus: &status,
		SubscriptionPlan:   &plan,
	}

	_, err = s.repo.Upsert(ctx, p.Email, update, false)
	return err
}

// mapProviderStatus normalizes provider subscription statuses to the
// profile's status set.
func mapProviderStatus(status string) string {
	switch status {
	case "active", "trialing":
		return profile.StatusActive
	case "past_due":
		return profile.StatusPastDue
	case "canceled", "unpaid", "incomplete_expired":
		return profile.StatusCanceled
	default:
		return profile.StatusNone
	}
}

// PortalURL creates a billing portal session for the caller. When the
// request names a customer id it must match the one on the caller's
// profile; otherwise the stored id is used.
func (s *BillingService) PortalURL(ctx context.Context, email, customerID, returnURL string) (string, error) {
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if customerID != "" && customerID != p.StripeCustomerID {
		return "", errors.Unauthorized("Customer does not match this profile")
	}
	if p.StripeCustomerID == "" {
		return "", errors.BadRequest("No billing account for this profile")
	}
	return s.provider.PortalURL(ctx, p.StripeCustomerID, returnURL)
}
