package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"casabook/server/internal/ledger"
	"casabook/server/internal/models"
	"casabook/server/internal/payments"
	"casabook/server/internal/payouts"
)

type countingStore struct {
	mu    sync.Mutex
	scans int
}

func (c *countingStore) ListPendingReservations(ctx context.Context) ([]models.ReservationEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scans++
	return nil, nil
}

func (c *countingStore) UpdateReservationStatus(ctx context.Context, id int, status string) error {
	return nil
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scans
}

type noopProvider struct{}

func (noopProvider) CreateIntent(ctx context.Context, params payments.IntentParams) (*payments.Intent, error) {
	return nil, nil
}

func (noopProvider) RetrieveIntent(ctx context.Context, id string) (*payments.Intent, error) {
	return &payments.Intent{ID: id}, nil
}

func (noopProvider) CreateTransfer(ctx context.Context, params payments.TransferParams) (string, error) {
	return "", nil
}

type noopBook struct{}

func (noopBook) Recorded(paymentIntentID string) (bool, error) { return false, nil }
func (noopBook) Record(t *ledger.Transfer) error               { return nil }

func TestSchedulerRunsStartupScanAndTicks(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := &countingStore{}
	processor := payouts.NewProcessor(store, noopProvider{}, noopBook{}, 0.15, "eur", 48, logger)

	s := NewScheduler(processor, 20*time.Millisecond, logger)
	s.Start()

	// startup scan plus at least one tick
	assert.Eventually(t, func() bool {
		return store.count() >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	after := store.count()

	// no further scans once stopped
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, store.count())
}
