package dto

// VerifyPaymentRequest asks the server to verify a completed checkout
// session against the payment provider.
type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// VerifyPaymentResponse is the reconciled subscription snapshot
type VerifyPaymentResponse struct {
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// PortalSessionRequest asks for a billing self-service portal session.
// The customer id is optional; when absent the one stored on the
// caller's profile is used.
type PortalSessionRequest struct {
	CustomerID string `json:"customerId,omitempty"`
	ReturnURL  string `json:"returnUrl,omitempty" validate:"omitempty,url"`
}

// PortalSessionResponse carries the portal URL to redirect to
type PortalSessionResponse struct {
	URL string `json:"url"`
}
