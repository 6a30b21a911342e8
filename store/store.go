package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/utils"
)

// Store is the single authoritative owner of tables, menu, active orders and
// history. Every mutation goes through it, runs inside a transaction, and is
// published on the event bus after commit. A store-level mutex serializes
// writers, so two handlers updating the same record cannot clobber each other
// the way two browser tabs could in the old system.
type Store struct {
	db  *gorm.DB
	bus *events.Bus

	mu             sync.Mutex
	sessionTimeout time.Duration

	lastOrderID int64
	lastMenuID  int64
}

const DefaultSessionTimeout = 10 * time.Minute

func New(db *gorm.DB, bus *events.Bus, sessionTimeout time.Duration) *Store {
	if sessionTimeout <= 0 {
		sessionTimeout = DefaultSessionTimeout
	}
	return &Store{
		db:             db,
		bus:            bus,
		sessionTimeout: sessionTimeout,
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// SessionTimeout is the idle threshold shared with the session manager.
func (s *Store) SessionTimeout() time.Duration { return s.sessionTimeout }

// publish emits a change notification keyed by collection. Callers invoke it
// after their transaction committed, never before.
func (s *Store) publish(collection, action string, record interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{Collection: collection, Action: action, Record: record})
}

// nextOrderID returns a time-derived order id (ORD-<unix ms>), bumped past
// the previous one when two orders land on the same millisecond.
// Must be called with s.mu held.
func (s *Store) nextOrderID() string {
	ms := time.Now().UnixMilli()
	if ms <= s.lastOrderID {
		ms = s.lastOrderID + 1
	}
	s.lastOrderID = ms
	return fmt.Sprintf("ORD-%d", ms)
}

// nextMenuID derives a fresh menu item id from the category and creation
// time, e.g. "especialidad-1712345678901". Ids are never reused after a
// delete because the clock only moves forward.
func (s *Store) nextMenuID(category string) string {
	ms := time.Now().UnixMilli()
	if ms <= s.lastMenuID {
		ms = s.lastMenuID + 1
	}
	s.lastMenuID = ms
	return fmt.Sprintf("%s-%d", category, ms)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Migrate creates the schema for every record the store owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ArchivedOrder{},
	); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
