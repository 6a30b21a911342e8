package models

import "time"

// Order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID          string      `gorm:"primaryKey;type:varchar(30)" json:"id"`
	TableID     uint        `gorm:"not null;index" json:"table_id"`
	SessionID   string      `gorm:"type:varchar(50);not null" json:"session_id"`
	Status      string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Total       float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	ConfirmedAt *time.Time  `json:"confirmed_at,omitempty"`
	ReadyAt     *time.Time  `json:"ready_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  string  `gorm:"type:varchar(30);not null;index" json:"order_id"`
	ItemID   string  `gorm:"type:varchar(50);not null" json:"item_id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Notes    string  `gorm:"type:text" json:"notes"`
}

// OrderLine is the wire shape an order is created from: a price snapshot
// taken at cart time, not a reference into the live catalog.
type OrderLine struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes"`
}

// Lines projects the stored items back into the wire shape.
func (o *Order) Lines() []OrderLine {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLine{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Notes:    it.Notes,
		})
	}
	return lines
}

// Terminal reports whether a status ends the order's active life.
func Terminal(status string) bool {
	return status == OrderCompleted || status == OrderCancelled
}
