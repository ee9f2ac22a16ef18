package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/utils"
	"github.com/careercompass/backend/internal/services"
)

// Stripe caps event payloads well below this.
const maxWebhookBody = 65536

// WebhookHandler receives payment provider webhook events
type WebhookHandler struct {
	billing       *services.BillingService
	webhookSecret string
	logger        *logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(billing *services.BillingService, webhookSecret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing:       billing,
		webhookSecret: webhookSecret,
		logger:        log,
	}
}

// Handle verifies and applies one webhook event. The signature is checked
// against the raw body before any JSON parsing happens; unknown event
// types acknowledge with 200 so the provider stops retrying them.
// @Summary Payment provider webhook
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Event applied or ignored"
// @Failure 400 {object} utils.ErrorResponse "Bad signature or payload"
// @Router /webhook [post]
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Failed to read request body"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		h.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.logger.WithError(err).Warn("Webhook signature verification failed")
		utils.WriteError(w, errors.SignatureInvalid(err))
		return
	}

	subEvent, err := h.parseEvent(event)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	if err := h.billing.ApplyEvent(r.Context(), subEvent); err != nil {
		h.logger.ErrorWithErr(err, "Failed to apply webhook event")
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]bool{"received": true})
}

// parseEvent projects a provider event onto the neutral event shape.
func (h *WebhookHandler) parseEvent(event stripe.Event) (services.SubscriptionEvent, error) {
	out := services.SubscriptionEvent{Type: string(event.Type)}

	switch string(event.Type) {
	case services.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return out, errors.BadRequest("Malformed checkout session payload")
		}
		out.SessionID = session.ID
		if session.Customer != nil {
			out.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			out.SubscriptionID = session.Subscription.ID
		}
		if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
			out.Email = session.CustomerDetails.Email
		} else if session.CustomerEmail != "" {
			out.Email = session.CustomerEmail
		}

	case services.EventSubscriptionCreated,
		services.EventSubscriptionUpdated,
		services.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return out, errors.BadRequest("Malformed subscription payload")
		}
		out.SubscriptionID = sub.ID
		out.Status = string(sub.Status)
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			out.PriceID = sub.Items.Data[0].Price.ID
		}
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			out.CurrentPeriodEnd = &end
		}
	}

	return out, nil
}
