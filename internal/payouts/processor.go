package payouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"casabook/server/internal/booking"
	"casabook/server/internal/ledger"
	"casabook/server/internal/models"
	"casabook/server/internal/payments"
)


// Store is the slice of the CMS the payout scan needs.
type Store interface {
	ListPendingReservations(ctx context.Context) ([]models.ReservationEntry, error)
	UpdateReservationStatus(ctx context.Context, id int, status string) error
}

// Book keeps the record of executed transfers.
type Book interface {
	Recorded(paymentIntentID string) (bool, error)
	Record(t *ledger.Transfer) error
}

// Report summarizes one payout scan. Failures never abort the batch;
// each failed reservation is listed with its reason and retried on the
// next run.
type Report struct {
	Scanned     int       `json:"scanned"`
	Transferred int       `json:"transferred"`
	Cancelled   int       `json:"cancelled"`
	Skipped     int       `json:"skipped"`
	Failures    []Failure `json:"failures,omitempty"`
}

type Failure struct {
	ReservationID int    `json:"reservationId"`
	Reason        string `json:"reason"`
}

func (r *Report) Message() string {
	return fmt.Sprintf("processed %d pending reservations: %d transferred, %d cancelled, %d skipped, %d failed",
		r.Scanned, r.Transferred, r.Cancelled, r.Skipped, len(r.Failures))
}

// Processor scans pending reservations and pays out owners whose hold
// window has elapsed: transfer total minus the platform fee from the
// captured charge to the owner's connected account, then mark the
// reservation confirmed.
type Processor struct {
	store    Store
	payments payments.Provider
	book     Book
	logger   *logrus.Logger

	feeRate   float64
	currency  string
	holdHours int

	// now is a test seam; production uses time.Now.
	now func() time.Time
}

func NewProcessor(store Store, provider payments.Provider, book Book, feeRate float64, currency string, holdHours int, logger *logrus.Logger) *Processor {
	return &Processor{
		store:     store,
		payments:  provider,
		book:      book,
		logger:    logger,
		feeRate:   feeRate,
		currency:  currency,
		holdHours: holdHours,
		now:       time.Now,
	}
}

// Run executes one payout scan. It returns an error only when the
// pending list itself cannot be fetched; per-reservation failures are
// collected in the report.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	pending, err := p.store.ListPendingReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reservations: %w", err)
	}

	report := &Report{}
	cutoff := time.Duration(p.holdHours) * time.Hour
	now := p.now()

	for i := range pending {
		reservation := &pending[i]
		report.Scanned++

		if reservation.Attributes.PaymentIntentID == "" {
			report.Skipped++
			continue
		}
		if now.Sub(reservation.Attributes.CreatedAt) <= cutoff {
			report.Skipped++
			continue
		}

		result, err := p.process(ctx, reservation)
		if err != nil {
			p.logger.WithError(err).WithField("reservation_id", reservation.ID).Error("Payout failed")
			report.Failures = append(report.Failures, Failure{
				ReservationID: reservation.ID,
				Reason:        err.Error(),
			})
			continue
		}
		switch result {
		case outcomeTransferred:
			report.Transferred++
		case outcomeCancelled:
			report.Cancelled++
		default:
			report.Skipped++
		}
	}

	p.logger.WithFields(logrus.Fields{
		"scanned":     report.Scanned,
		"transferred": report.Transferred,
		"cancelled":   report.Cancelled,
		"skipped":     report.Skipped,
		"failed":      len(report.Failures),
	}).Info("Payout scan completed")
	return report, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeTransferred
	outcomeCancelled
)

// process settles a single eligible reservation: pay out a captured
// charge, or cancel the reservation when the card was never confirmed.
// An already-recorded intent only repairs the reservation status.
func (p *Processor) process(ctx context.Context, reservation *models.ReservationEntry) (outcome, error) {
	intentID := reservation.Attributes.PaymentIntentID

	recorded, err := p.book.Recorded(intentID)
	if err != nil {
		return outcomeSkipped, err
	}
	if recorded {
		// Transfer already executed on a previous run; the CMS status
		// write must have failed. Repair it and move on.
		if err := p.store.UpdateReservationStatus(ctx, reservation.ID, string(booking.StatusConfirmed)); err != nil {
			return outcomeSkipped, err
		}
		return outcomeSkipped, nil
	}

	intent, err := p.payments.RetrieveIntent(ctx, intentID)
	if err != nil {
		return outcomeSkipped, err
	}
	if intent.LatestChargeID == "" {
		// The card confirmation was abandoned or failed: no charge was
		// ever captured within the hold window. Cancel so the dates stop
		// blocking other bookings.
		if err := p.store.UpdateReservationStatus(ctx, reservation.ID, string(booking.StatusCancelled)); err != nil {
			return outcomeSkipped, err
		}
		p.logger.WithFields(logrus.Fields{
			"reservation_id": reservation.ID,
			"payment_intent": intentID,
		}).Info("Unpaid reservation cancelled")
		return outcomeCancelled, nil
	}

	property := reservation.Attributes.Property
	if property == nil || property.Data == nil {
		return outcomeSkipped, errors.New("reservation has no populated property")
	}
	destination := property.Data.OwnerPayoutAccount()
	if destination == "" {
		return outcomeSkipped, errors.New("property owner has no payout account")
	}

	amountMinor := payments.PayoutMinorUnits(reservation.Attributes.Total, p.feeRate)
	transferID, err := p.payments.CreateTransfer(ctx, payments.TransferParams{
		AmountMinor:   amountMinor,
		Currency:      p.currency,
		Destination:   destination,
		SourceCharge:  intent.LatestChargeID,
		ReservationID: reservation.ID,
	})
	if err != nil {
		return outcomeSkipped, err
	}

	if err := p.book.Record(&ledger.Transfer{
		PaymentIntentID: intentID,
		ReservationID:   reservation.ID,
		TransferID:      transferID,
		AmountMinor:     amountMinor,
	}); err != nil && !errors.Is(err, ledger.ErrAlreadyRecorded) {
		// The money moved but the ledger write failed; surface it loudly
		// so the operator reconciles before the next scan.
		p.logger.WithError(err).WithFields(logrus.Fields{
			"reservation_id": reservation.ID,
			"transfer_id":    transferID,
		}).Error("Transfer executed but not recorded in ledger")
		return outcomeSkipped, err
	}

	if err := p.store.UpdateReservationStatus(ctx, reservation.ID, string(booking.StatusConfirmed)); err != nil {
		return outcomeSkipped, err
	}

	p.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"transfer_id":    transferID,
		"amount_minor":   amountMinor,
	}).Info("Owner payout transferred")
	return outcomeTransferred, nil
}
