package watch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/watch"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	st := store.New(db, nil, 10*time.Minute)
	require.NoError(t, st.Seed(12))
	return st
}

func placeOrder(t *testing.T, st *store.Store) *models.Order {
	t.Helper()
	_, err := st.ClaimTable(1, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(1, []models.OrderLine{
		{ItemID: "esp-1", Name: "Espresso Italiano", Price: 2.50, Quantity: 1},
	}, "SESSION-1")
	require.NoError(t, err)
	return order
}

// transitionLog collects watcher callbacks behind a mutex.
type transitionLog struct {
	mu      sync.Mutex
	changes []string
	ready   bool
	cancel  bool
}

func (l *transitionLog) record(from, to string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, from+">"+to)
}

func (l *transitionLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.changes))
	copy(out, l.changes)
	return out
}

func TestWatcherObservesTransitions(t *testing.T) {
	st := newTestStore(t)
	order := placeOrder(t, st)

	log := &transitionLog{}
	w := watch.New(st, order.ID)
	w.Interval = 10 * time.Millisecond
	w.OnChange = func(from, to string, _ *models.Order) { log.record(from, to) }
	w.OnReady = func(_ *models.Order) {
		log.mu.Lock()
		log.ready = true
		log.mu.Unlock()
	}
	w.Start()
	defer w.Stop()

	_, err := st.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		changes := log.snapshot()
		return len(changes) == 1 && changes[0] == "pending>confirmed"
	}, time.Second, 10*time.Millisecond)

	_, err = st.UpdateOrderStatus(order.ID, models.OrderReady)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		log.mu.Lock()
		defer log.mu.Unlock()
		return log.ready
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"pending>confirmed", "confirmed>ready"}, log.snapshot())
}

func TestWatcherFiresOncePerTransition(t *testing.T) {
	st := newTestStore(t)
	order := placeOrder(t, st)

	log := &transitionLog{}
	w := watch.New(st, order.ID)
	w.Interval = 5 * time.Millisecond
	w.OnChange = func(from, to string, _ *models.Order) { log.record(from, to) }
	w.Start()
	defer w.Stop()

	_, err := st.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(log.snapshot()) >= 1
	}, time.Second, 5*time.Millisecond)

	// several more polls pass with no further change
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"pending>confirmed"}, log.snapshot())
}

func TestWatcherSeesCancellationAfterArchival(t *testing.T) {
	st := newTestStore(t)
	order := placeOrder(t, st)

	log := &transitionLog{}
	w := watch.New(st, order.ID)
	w.Interval = 10 * time.Millisecond
	w.OnCancelled = func(_ *models.Order) {
		log.mu.Lock()
		log.cancel = true
		log.mu.Unlock()
	}
	w.Start()
	defer w.Stop()

	// cancelling archives the order out of the active set; the watcher must
	// still observe the terminal status
	_, err := st.UpdateOrderStatus(order.ID, models.OrderCancelled)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		log.mu.Lock()
		defer log.mu.Unlock()
		return log.cancel
	}, time.Second, 10*time.Millisecond)
}

func TestWatcherStopsWhenReadyEdgeSkipped(t *testing.T) {
	st := newTestStore(t)
	order := placeOrder(t, st)

	// the whole lifecycle lands before the first tick, as a fast kitchen can
	// do within one polling interval
	for _, status := range []string{models.OrderConfirmed, models.OrderReady, models.OrderCompleted} {
		_, err := st.UpdateOrderStatus(order.ID, status)
		require.NoError(t, err)
	}

	log := &transitionLog{}
	w := watch.New(st, order.ID)
	w.Interval = 10 * time.Millisecond
	w.OnChange = func(from, to string, _ *models.Order) { log.record(from, to) }
	w.OnReady = func(_ *models.Order) {
		log.mu.Lock()
		log.ready = true
		log.mu.Unlock()
	}
	w.Start()

	// the watcher must stop itself on the archived completed order instead
	// of polling it forever
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher kept polling a completed order")
	}

	assert.Equal(t, []string{"pending>completed"}, log.snapshot())

	// the ready edge was never observed, so no ready notification fires
	log.mu.Lock()
	defer log.mu.Unlock()
	assert.False(t, log.ready)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	order := placeOrder(t, st)

	w := watch.New(st, order.ID)
	w.Interval = 10 * time.Millisecond
	w.Start()

	w.Stop()
	w.Stop()
}
