// Package cart implements the customer's staging area for selections before
// they become an order. A cart belongs to one session, lives in memory only,
// and snapshots prices at add time.
package cart

import (
	"sync"

	"github.com/lasazonmanaba/ordering-app/models"
)

// Line is one cart entry. Two entries are the same line when both the menu
// item id and the notes text match; adding a matching pair again increments
// the quantity instead of duplicating the line.
type Line struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes"`
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing (itemID, notes) line or appends a new one.
// Returns false for a non-positive quantity; nothing is added.
func (c *Cart) AddItem(item *models.MenuItem, quantity int, notes string) bool {
	if quantity < 1 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ID && c.lines[i].Notes == notes {
			c.lines[i].Quantity += quantity
			return true
		}
	}
	c.lines = append(c.lines, Line{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
		Notes:    notes,
	})
	return true
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Returns false when no matching line exists.
func (c *Cart) UpdateQuantity(itemID, notes string, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveItem(itemID, notes)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID && c.lines[i].Notes == notes {
			c.lines[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem drops the matching line.
func (c *Cart) RemoveItem(itemID, notes string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID && c.lines[i].Notes == notes {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total is the sum of price × quantity over all lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// OrderLines projects the cart into the shape CreateOrder expects. Prices
// are the add-time snapshots; they are not re-checked against the catalog.
func (c *Cart) OrderLines() []models.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]models.OrderLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, models.OrderLine{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Notes:    line.Notes,
		})
	}
	return lines
}
