package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lasazonmanaba/ordering-app/cart"
	"github.com/lasazonmanaba/ordering-app/models"
)

var (
	espresso = &models.MenuItem{ID: "esp-1", Name: "Espresso Italiano", Price: 2.50, Active: true, Customizable: true}
	latte    = &models.MenuItem{ID: "esp-3", Name: "Latte Art Caramelo", Price: 4.25, Active: true, Customizable: true}
)

func TestAddItemMergesOnItemAndNotes(t *testing.T) {
	c := cart.New()

	assert.True(t, c.AddItem(espresso, 2, ""))
	assert.True(t, c.AddItem(espresso, 3, ""))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	// different notes -> separate line
	assert.True(t, c.AddItem(espresso, 1, "extra shot"))
	assert.Len(t, c.Lines(), 2)
	assert.Equal(t, 6, c.ItemCount())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := cart.New()

	assert.False(t, c.AddItem(espresso, 0, ""))
	assert.False(t, c.AddItem(espresso, -2, ""))
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	c := cart.New()
	c.AddItem(espresso, 2, "")

	assert.True(t, c.UpdateQuantity("esp-1", "", 5))
	assert.Equal(t, 5, c.Lines()[0].Quantity)

	// zero or less removes the line
	assert.True(t, c.UpdateQuantity("esp-1", "", 0))
	assert.True(t, c.IsEmpty())

	assert.False(t, c.UpdateQuantity("esp-1", "", 3))
}

func TestRemoveItemMatchesNotes(t *testing.T) {
	c := cart.New()
	c.AddItem(espresso, 1, "")
	c.AddItem(espresso, 1, "extra shot")

	assert.False(t, c.RemoveItem("esp-1", "no such notes"))
	assert.True(t, c.RemoveItem("esp-1", "extra shot"))

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, "", lines[0].Notes)
}

func TestTotalAndCount(t *testing.T) {
	c := cart.New()
	c.AddItem(espresso, 2, "")
	c.AddItem(latte, 1, "")

	assert.InDelta(t, 9.25, c.Total(), 0.001)
	assert.Equal(t, 3, c.ItemCount())

	c.Clear()
	assert.InDelta(t, 0, c.Total(), 0.001)
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.IsEmpty())
}

func TestPriceSnapshotAtAddTime(t *testing.T) {
	c := cart.New()
	item := &models.MenuItem{ID: "dia-1", Name: "Desayuno Criollo", Price: 5.50, Active: true}
	c.AddItem(item, 1, "")

	// a later catalog price change does not touch the cart line
	item.Price = 7.00
	assert.InDelta(t, 5.50, c.Total(), 0.001)
}

func TestOrderLinesProjection(t *testing.T) {
	c := cart.New()
	c.AddItem(espresso, 2, "")
	c.AddItem(latte, 1, "sin azucar")

	lines := c.OrderLines()
	assert.Len(t, lines, 2)
	assert.Equal(t, models.OrderLine{
		ItemID:   "esp-1",
		Name:     "Espresso Italiano",
		Price:    2.50,
		Quantity: 2,
	}, lines[0])
	assert.Equal(t, "sin azucar", lines[1].Notes)
}
