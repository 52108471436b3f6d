package booking

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"casabook/server/internal/models"
	"casabook/server/internal/payments"
)

// Store is the slice of the CMS the booking workflow needs.
type Store interface {
	GetProperty(ctx context.Context, id int) (*models.PropertyEntry, error)
	BlockingReservations(ctx context.Context, propertyID int, statuses []string) ([]models.ReservationEntry, error)
	CreateReservation(ctx context.Context, input models.ReservationInput) (*models.ReservationEntry, error)
	GetReservation(ctx context.Context, id int) (*models.ReservationEntry, error)
	UpdateReservationStatus(ctx context.Context, id int, status string) error
}

// Service runs the reservation workflow: availability validation, escrow
// payment-intent creation and persistence, plus owner/renter status
// transitions.
type Service struct {
	store    Store
	payments payments.Provider
	logger   *logrus.Logger
	feeRate  float64
	currency string

	// One lock per property keeps the check-then-book chain atomic
	// within this process, closing the double-booking window between
	// the availability read and the reservation write.
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewService(store Store, provider payments.Provider, feeRate float64, currency string, logger *logrus.Logger) *Service {
	return &Service{
		store:    store,
		payments: provider,
		logger:   logger,
		feeRate:  feeRate,
		currency: currency,
		locks:    make(map[int]*sync.Mutex),
	}
}

func (s *Service) propertyLock(propertyID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[propertyID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[propertyID] = lock
	}
	return lock
}

// CreateRequest is a renter's booking request.
type CreateRequest struct {
	PropertyID int    `json:"propertyId" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
}

// CreateResult carries the persisted reservation and the client secret
// the browser needs to confirm the card payment.
type CreateResult struct {
	Reservation  *models.ReservationEntry `json:"reservation"`
	ClientSecret string                   `json:"clientSecret"`
	Total        float64                  `json:"total"`
}

// CreateReservation validates the requested dates, creates the escrow
// payment intent and persists the reservation as pending. The intent is
// created before the write so a pending record always carries a payment
// reference; if intent creation fails nothing is persisted.
func (s *Service) CreateReservation(ctx context.Context, renter *models.User, req CreateRequest) (*CreateResult, error) {
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if !end.After(start) {
		return nil, ErrEndNotAfterStart
	}

	property, err := s.store.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID() == renter.ID {
		return nil, ErrOwnProperty
	}
	if err := ValidateRange(&property.Attributes, start, end); err != nil {
		return nil, err
	}

	lock := s.propertyLock(req.PropertyID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.BlockingReservations(ctx, req.PropertyID, BlockingStatuses)
	if err != nil {
		return nil, err
	}
	if !RangeFree(existing, start, end) {
		return nil, ErrDatesUnavailable
	}

	total := float64(Nights(start, end)) * property.Attributes.Price

	intent, err := s.payments.CreateIntent(ctx, payments.IntentParams{
		Amount:         total,
		Currency:       s.currency,
		PropertyID:     strconv.Itoa(req.PropertyID),
		OwnerAccountID: property.OwnerPayoutAccount(),
		FeeRate:        s.feeRate,
	})
	if err != nil {
		return nil, err
	}

	reservation, err := s.store.CreateReservation(ctx, models.ReservationInput{
		Property:        req.PropertyID,
		StartDate:       FormatDate(start),
		EndDate:         FormatDate(end),
		Renter:          renter.ID,
		Status:          string(StatusPending),
		Total:           total,
		PaymentIntentID: intent.ID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"property_id":    req.PropertyID,
		"renter_id":      renter.ID,
		"total":          total,
	}).Info("Reservation created")

	return &CreateResult{
		Reservation:  reservation,
		ClientSecret: intent.ClientSecret,
		Total:        total,
	}, nil
}

// ChangeStatus applies an owner or renter status transition after
// validating it against the state machine. The property owner may
// confirm or cancel; the renter may only cancel their own reservation.
func (s *Service) ChangeStatus(ctx context.Context, actor *models.User, reservationID int, to Status) error {
	if !to.Valid() || to == StatusPending {
		return ErrInvalidStatus
	}

	reservation, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	ownerID := 0
	if reservation.Attributes.Property != nil && reservation.Attributes.Property.Data != nil {
		ownerID = reservation.Attributes.Property.Data.OwnerID()
	}
	switch {
	case actor.ID == ownerID:
		// owners manage reservations on their own listings
	case actor.ID == reservation.RenterID() && to == StatusCancelled:
		// renters may cancel their own reservation
	default:
		return ErrNotAllowed
	}

	from := EffectiveStatus(Status(reservation.Attributes.Status), reservation.Attributes.EndDate, time.Now())
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	if err := s.store.UpdateReservationStatus(ctx, reservationID, string(to)); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"from":           from,
		"to":             to,
		"actor_id":       actor.ID,
	}).Info("Reservation status changed")
	return nil
}
