// internal/provider/mock.go
package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MockProvider is the stand-in payment gateway. It mints an opaque
// provider payment id and checkout URL without any external call.
type MockProvider struct {
	name    string
	baseURL string
}

// NewMockProvider creates a MockProvider publishing checkout URLs under
// baseURL.
func NewMockProvider(name, baseURL string) *MockProvider {
	return &MockProvider{name: name, baseURL: baseURL}
}

// CreateIntent mints a new provider payment id. The id is a UUID so a
// replayed create can never collide on the (provider, provider_payment_id)
// unique constraint.
func (p *MockProvider) CreateIntent(_ context.Context, studentID, amountCents int64, currency string) (*Intent, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountCents)
	}
	id := uuid.NewString()
	return &Intent{
		Provider:          p.name,
		ProviderPaymentID: id,
		PaymentURL:        fmt.Sprintf("%s/checkout/%s?amount=%d&currency=%s", p.baseURL, id, amountCents, currency),
	}, nil
}
