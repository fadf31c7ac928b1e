package common

const (
	// StripeSignatureHeader carries the webhook signature sent by the payment provider.
	StripeSignatureHeader = "Stripe-Signature"

	// RequestIDHeader is echoed back on every HTTP response.
	RequestIDHeader = "X-Request-ID"
)
