package payments

import (
	"context"
	"errors"
)

var (
	ErrMissingAmount     = errors.New("payment amount is required")
	ErrMissingPropertyID = errors.New("property id is required")
)

// Intent is the subset of a processor payment intent the workflows need.
type Intent struct {
	ID           string
	ClientSecret string

	// LatestChargeID is set on retrieval when a charge was captured.
	LatestChargeID string
}

// IntentParams describes an escrow charge for one reservation. Amount is
// in major currency units; conversion to minor units happens inside
// CreateIntent so every caller shares the same rounding.
type IntentParams struct {
	Amount     float64
	Currency   string
	PropertyID string

	// OwnerAccountID, when set, routes the captured funds to the owner's
	// connected account with FeeRate retained as the application fee.
	OwnerAccountID string
	FeeRate        float64
}

// TransferParams moves captured funds from a charge to a connected account.
type TransferParams struct {
	AmountMinor   int64
	Currency      string
	Destination   string
	SourceCharge  string
	ReservationID int
}

// Provider is the payment-processor boundary. The production
// implementation is Stripe; tests substitute a fake.
type Provider interface {
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	CreateTransfer(ctx context.Context, params TransferParams) (string, error)
}
