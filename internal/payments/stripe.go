package payments

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api    *client.API
	logger *logrus.Logger
}

func NewStripeProvider(secretKey string, logger *logrus.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:    api,
		logger: logger,
	}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, in IntentParams) (*Intent, error) {
	if in.Amount <= 0 {
		return nil, ErrMissingAmount
	}
	if in.PropertyID == "" {
		return nil, ErrMissingPropertyID
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(MinorUnits(in.Amount)),
		Currency: stripe.String(in.Currency),
	}
	params.AddMetadata("propertyId", in.PropertyID)
	if in.OwnerAccountID != "" {
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(in.OwnerAccountID),
		}
		params.ApplicationFeeAmount = stripe.Int64(FeeMinorUnits(in.Amount, in.FeeRate))
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		p.logger.WithError(err).WithField("property_id", in.PropertyID).Error("Failed to create payment intent")
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (p *StripeProvider) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("latest_charge")

	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		p.logger.WithError(err).WithField("payment_intent", id).Error("Failed to retrieve payment intent")
		return nil, err
	}

	intent := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}
	if pi.LatestCharge != nil {
		intent.LatestChargeID = pi.LatestCharge.ID
	}
	return intent, nil
}

func (p *StripeProvider) CreateTransfer(ctx context.Context, in TransferParams) (string, error) {
	params := &stripe.TransferParams{
		Params:            stripe.Params{Context: ctx},
		Amount:            stripe.Int64(in.AmountMinor),
		Currency:          stripe.String(in.Currency),
		Destination:       stripe.String(in.Destination),
		SourceTransaction: stripe.String(in.SourceCharge),
	}
	params.AddMetadata("reservationId", strconv.Itoa(in.ReservationID))

	transfer, err := p.api.Transfers.New(params)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"reservation_id": in.ReservationID,
			"destination":    in.Destination,
		}).Error("Failed to create transfer")
		return "", err
	}
	return transfer.ID, nil
}
