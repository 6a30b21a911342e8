package store_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/store"
)

func TestAddMenuItem(t *testing.T) {
	st := newTestStore(t)

	item, err := st.AddMenuItem(store.MenuItemInput{
		Name:         "Cortado Doble",
		Description:  "Doble shot con leche",
		Price:        3.25,
		Customizable: true,
		Category:     models.CategorySpecialty,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(item.ID, models.CategorySpecialty+"-"))
	assert.True(t, item.Active)

	catalog, err := st.ListMenu(false)
	require.NoError(t, err)
	assert.Len(t, catalog.Specialties, 5)
}

func TestAddMenuItemValidation(t *testing.T) {
	st := newTestStore(t)

	_, err := st.AddMenuItem(store.MenuItemInput{Name: "  ", Price: 1, Category: models.CategoryDaily})
	assert.ErrorIs(t, err, store.ErrEmptyName)

	_, err = st.AddMenuItem(store.MenuItemInput{Name: "Flan", Price: 0, Category: models.CategoryDaily})
	assert.ErrorIs(t, err, store.ErrInvalidPrice)

	_, err = st.AddMenuItem(store.MenuItemInput{Name: "Flan", Price: 3, Category: "postres"})
	assert.ErrorIs(t, err, store.ErrInvalidCategory)
}

func TestToggleMenuItemHidesFromCustomers(t *testing.T) {
	st := newTestStore(t)

	item, err := st.ToggleMenuItem("esp-1")
	require.NoError(t, err)
	assert.False(t, item.Active)

	customer, err := st.ListMenu(true)
	require.NoError(t, err)
	for _, dish := range customer.Specialties {
		assert.NotEqual(t, "esp-1", dish.ID)
	}

	// still present for staff
	staff, err := st.ListMenu(false)
	require.NoError(t, err)
	assert.Len(t, staff.Specialties, 4)

	item, err = st.ToggleMenuItem("esp-1")
	require.NoError(t, err)
	assert.True(t, item.Active)
}

func TestUpdateMenuItemPartial(t *testing.T) {
	st := newTestStore(t)

	price := 2.95
	item, err := st.UpdateMenuItem("esp-1", store.MenuItemUpdate{Price: &price})
	require.NoError(t, err)
	assert.InDelta(t, 2.95, item.Price, 0.001)
	assert.Equal(t, "Espresso Italiano", item.Name)

	_, err = st.UpdateMenuItem("no-such-item", store.MenuItemUpdate{Price: &price})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteMenuItem(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.DeleteMenuItem("dia-3"))

	_, err := st.GetMenuItem("dia-3")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = st.DeleteMenuItem("dia-3")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTodayRevenueStartsAtLocalMidnight(t *testing.T) {
	st := newTestStore(t)

	completeOrder := func(tableID uint, lines []models.OrderLine) *models.Order {
		_, err := st.ClaimTable(tableID, "SESSION-1")
		require.NoError(t, err)
		order, err := st.CreateOrder(tableID, lines, "SESSION-1")
		require.NoError(t, err)
		for _, status := range []string{models.OrderConfirmed, models.OrderReady, models.OrderCompleted} {
			_, err = st.UpdateOrderStatus(order.ID, status)
			require.NoError(t, err)
		}
		return order
	}

	old := completeOrder(1, []models.OrderLine{
		{ItemID: "dia-1", Name: "Desayuno Criollo", Price: 5.50, Quantity: 1},
	})
	completeOrder(2, sampleLines())

	// push the first completion across the local-midnight boundary
	yesterday := time.Now().Add(-25 * time.Hour)
	require.NoError(t, st.DB().Model(&models.ArchivedOrder{}).
		Where("id = ?", old.ID).
		Updates(map[string]interface{}{"completed_at": yesterday, "archived_at": yesterday}).Error)

	stats, err := st.GetDashboardStats()
	require.NoError(t, err)
	assert.InDelta(t, 9.25, stats.TodayRevenue, 0.001)
}

func TestDashboardStats(t *testing.T) {
	st := newTestStore(t)

	_, err := st.ClaimTable(1, "SESSION-1")
	require.NoError(t, err)
	order, err := st.CreateOrder(1, sampleLines(), "SESSION-1")
	require.NoError(t, err)

	stats, err := st.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalTables)
	assert.Equal(t, int64(1), stats.OccupiedTables)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.InDelta(t, 0, stats.TodayRevenue, 0.001)

	for _, status := range []string{models.OrderConfirmed, models.OrderReady, models.OrderCompleted} {
		_, err = st.UpdateOrderStatus(order.ID, status)
		require.NoError(t, err)
	}

	stats, err = st.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.PendingOrders)
	assert.InDelta(t, 9.25, stats.TodayRevenue, 0.001)
}
