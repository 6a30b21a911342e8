package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Table statuses
const (
	TableInactive  = "inactive"
	TableAvailable = "available"
	TableOccupied  = "occupied"
)

type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	SessionStart *time.Time `json:"session_start,omitempty"`
	SessionID    *string    `gorm:"type:varchar(50)" json:"session_id,omitempty"`
	OrderIDs     IDList     `gorm:"type:text" json:"order_ids"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// IDList stores the order ids attached to a table as a JSON text column.
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = IDList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for IDList")
}

func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

func (l IDList) Without(id string) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
