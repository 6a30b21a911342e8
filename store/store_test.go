package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/store"
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

func sampleLines() []models.OrderLine {
	return []models.OrderLine{
		{ItemID: "esp-1", Name: "Espresso Italiano", Price: 2.50, Quantity: 2},
		{ItemID: "esp-3", Name: "Latte Art Caramelo", Price: 4.25, Quantity: 1, Notes: "sin azucar"},
	}
}

func TestSeedIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Seed(12))

	tables, err := st.ListTables()
	require.NoError(t, err)
	assert.Len(t, tables, 12)
	for _, table := range tables {
		assert.Equal(t, models.TableAvailable, table.Status)
	}

	catalog, err := st.ListMenu(false)
	require.NoError(t, err)
	assert.Len(t, catalog.Specialties, 4)
	assert.Len(t, catalog.Daily, 3)
}

func TestClaimAndFreeTable(t *testing.T) {
	st := newTestStore(t)

	table, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)
	require.NotNil(t, table.SessionID)
	assert.Equal(t, "SESSION-1", *table.SessionID)
	assert.NotNil(t, table.SessionStart)
	assert.NotNil(t, table.LastActivity)

	_, err = st.ClaimTable(3, "SESSION-2")
	assert.ErrorIs(t, err, store.ErrTableUnavailable)

	table, err = st.FreeTable(3)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.SessionID)
	assert.Nil(t, table.SessionStart)
	assert.Empty(t, table.OrderIDs)
}

func TestTableServiceStatus(t *testing.T) {
	st := newTestStore(t)

	table, err := st.DeactivateTable(5)
	require.NoError(t, err)
	assert.Equal(t, models.TableInactive, table.Status)

	// A customer cannot claim an out-of-service table.
	_, err = st.ClaimTable(5, "SESSION-1")
	assert.ErrorIs(t, err, store.ErrTableUnavailable)

	table, err = st.ActivateTable(5)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)

	// Deactivating an occupied table is allowed; that is how staff force a
	// seated session to end.
	_, err = st.ClaimTable(5, "SESSION-2")
	require.NoError(t, err)
	table, err = st.DeactivateTable(5)
	require.NoError(t, err)
	assert.Equal(t, models.TableInactive, table.Status)
	assert.Nil(t, table.SessionID)
}

func TestCreateOrderTotal(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)

	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 9.25, order.Total, 0.001)
	assert.Contains(t, order.ID, "ORD-")
	assert.Len(t, order.Items, 2)

	table, err := st.GetTable(3)
	require.NoError(t, err)
	assert.True(t, table.OrderIDs.Contains(order.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)

	_, err = st.CreateOrder(3, nil, "SESSION-1")
	assert.ErrorIs(t, err, store.ErrEmptyOrder)

	_, err = st.CreateOrder(3, []models.OrderLine{
		{ItemID: "esp-1", Name: "Espresso Italiano", Price: 2.50, Quantity: 0},
	}, "SESSION-1")
	assert.ErrorIs(t, err, store.ErrInvalidQuantity)

	_, err = st.CreateOrder(3, []models.OrderLine{
		{ItemID: "esp-1", Name: "Espresso Italiano", Price: -1, Quantity: 1},
	}, "SESSION-1")
	assert.ErrorIs(t, err, store.ErrInvalidPrice)
}

func TestOrderIDsUnique(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(1, "SESSION-1")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		order, err := st.CreateOrder(1, sampleLines(), "SESSION-1")
		require.NoError(t, err)
		assert.False(t, seen[order.ID], "duplicate order id %s", order.ID)
		seen[order.ID] = true
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	// pending cannot jump straight to ready or completed
	_, err = st.UpdateOrderStatus(order.ID, models.OrderReady)
	assert.ErrorIs(t, err, store.ErrIllegalTransition)
	_, err = st.UpdateOrderStatus(order.ID, models.OrderCompleted)
	assert.ErrorIs(t, err, store.ErrIllegalTransition)

	order2, err := st.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order2.Status)
	assert.NotNil(t, order2.ConfirmedAt)

	// a confirmed order can no longer be cancelled
	_, err = st.UpdateOrderStatus(order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, store.ErrIllegalTransition)

	order2, err = st.UpdateOrderStatus(order.ID, models.OrderPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, order2.Status)

	order2, err = st.UpdateOrderStatus(order.ID, models.OrderReady)
	require.NoError(t, err)
	assert.NotNil(t, order2.ReadyAt)
}

func TestCompleteArchivesOrder(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	for _, status := range []string{models.OrderConfirmed, models.OrderReady, models.OrderCompleted} {
		_, err = st.UpdateOrderStatus(order.ID, status)
		require.NoError(t, err)
	}

	// gone from the active set
	_, err = st.GetOrder(order.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// but still resolvable, with its terminal status and full item list
	found, err := st.FindOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, found.Status)
	assert.InDelta(t, 9.25, found.Total, 0.001)
	assert.Len(t, found.Items, 2)

	history, err := st.ListHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
	assert.False(t, history[0].ArchivedAt.IsZero())

	// detached from the table
	table, err := st.GetTable(3)
	require.NoError(t, err)
	assert.False(t, table.OrderIDs.Contains(order.ID))
}

func TestRejectPendingOrder(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	cancelled, err := st.UpdateOrderStatus(order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	history, err := st.ListHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderCancelled, history[0].Status)
}

func TestUpdateOrderItemsPendingOnly(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	updated, err := st.UpdateOrderItems(order.ID, []models.OrderLine{
		{ItemID: "esp-1", Name: "Espresso Italiano", Price: 2.50, Quantity: 4},
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, updated.Total, 0.001)
	assert.Len(t, updated.Items, 1)

	_, err = st.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	_, err = st.UpdateOrderItems(order.ID, sampleLines())
	assert.ErrorIs(t, err, store.ErrOrderNotEditable)
}

func TestDeleteOrderPendingOnly(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	require.NoError(t, st.DeleteOrder(order.ID))

	_, err = st.GetOrder(order.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// deleted outright, not archived
	history, err := st.ListHistory()
	require.NoError(t, err)
	assert.Empty(t, history)

	table, err := st.GetTable(3)
	require.NoError(t, err)
	assert.Empty(t, table.OrderIDs)

	order, err = st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)
	_, err = st.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	err = st.DeleteOrder(order.ID)
	assert.ErrorIs(t, err, store.ErrOrderNotEditable)
}

func TestResetTableCancelsOrders(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)
	_, err = st.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	table, err := st.ResetTable(3)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Empty(t, table.OrderIDs)

	// the confirmed order got force-cancelled into history
	found, err := st.FindOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, found.Status)

	orders, err := st.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestResetTableUnknown(t *testing.T) {
	st := newTestStore(t)

	_, err := st.ResetTable(99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckTableInactivity(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)

	// fresh activity, nothing happens
	freed, err := st.CheckTableInactivity(3)
	require.NoError(t, err)
	assert.False(t, freed)

	stale := time.Now().Add(-11 * time.Minute)
	require.NoError(t, st.DB().Model(&models.Table{}).Where("id = ?", 3).Update("last_activity", stale).Error)

	freed, err = st.CheckTableInactivity(3)
	require.NoError(t, err)
	assert.True(t, freed)

	table, err := st.GetTable(3)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)
}

func TestCheckTableInactivitySkipsTablesWithOrders(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClaimTable(3, "SESSION-1")
	require.NoError(t, err)
	_, err = st.CreateOrder(3, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	stale := time.Now().Add(-11 * time.Minute)
	require.NoError(t, st.DB().Model(&models.Table{}).Where("id = ?", 3).Update("last_activity", stale).Error)

	freed, err := st.CheckTableInactivity(3)
	require.NoError(t, err)
	assert.False(t, freed)

	table, err := st.GetTable(3)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)
}
