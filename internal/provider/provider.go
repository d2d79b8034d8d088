// internal/provider/provider.go
package provider

import "context"

// Intent is the provider-side handle for a payment attempt.
type Intent struct {
	Provider          string
	ProviderPaymentID string
	PaymentURL        string
}

// PaymentProvider creates provider-side payment intents. The real gateway
// integration lives behind this interface; the service ships with a mocked
// implementation only.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, studentID, amountCents int64, currency string) (*Intent, error)
}
