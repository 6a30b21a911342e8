package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ArchivedOrder is the history record for a completed or cancelled order.
// The line items are frozen into a JSON column so the archive row is
// self-contained and the move out of the active set is a single insert.
type ArchivedOrder struct {
	ID          string     `gorm:"primaryKey;type:varchar(30)" json:"id"`
	TableID     uint       `gorm:"not null;index" json:"table_id"`
	SessionID   string     `gorm:"type:varchar(50);not null" json:"session_id"`
	Status      string     `gorm:"type:varchar(20);not null" json:"status"`
	Total       float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	Items       LineList   `gorm:"type:text" json:"items"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ArchivedAt  time.Time  `gorm:"not null;index" json:"archived_at"`
}

type LineList []OrderLine

func (l LineList) Value() (driver.Value, error) {
	if l == nil {
		l = LineList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *LineList) Scan(value interface{}) error {
	if value == nil {
		*l = LineList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for LineList")
}
