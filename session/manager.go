// Package session owns the customer side of a table claim: the session
// record, its cart, activity tracking and the inactivity sweep. Sessions are
// process-local; the durable table state stays with the store.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/lasazonmanaba/ordering-app/cart"
	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

const (
	DefaultTimeout       = 10 * time.Minute
	DefaultWarningAfter  = 9 * time.Minute
	DefaultSweepInterval = 30 * time.Second
)

type Session struct {
	ID           string     `json:"id"`
	TableID      uint       `json:"table_id"`
	StartTime    time.Time  `json:"start_time"`
	LastActivity time.Time  `json:"last_activity"`
	Cart         *cart.Cart `json:"-"`

	warned bool
}

type Manager struct {
	store *store.Store
	bus   *events.Bus

	mu       sync.RWMutex
	sessions map[string]*Session
	byTable  map[uint]string
	lastID   int64

	Timeout       time.Duration
	WarningAfter  time.Duration
	SweepInterval time.Duration

	// Hooks for the push layer. A nil hook is skipped.
	OnWarning func(*Session)
	OnExpired func(*Session)
	OnEnded   func(*Session) // table deactivated under the customer

	stopChan chan struct{}
	stopOnce sync.Once
	tableSub *events.Subscription
}

func NewManager(st *store.Store, bus *events.Bus) *Manager {
	return &Manager{
		store:         st,
		bus:           bus,
		sessions:      make(map[string]*Session),
		byTable:       make(map[uint]string),
		Timeout:       DefaultTimeout,
		WarningAfter:  DefaultWarningAfter,
		SweepInterval: DefaultSweepInterval,
		stopChan:      make(chan struct{}),
	}
}

// Claim creates a session on an available table and occupies it.
func (m *Manager) Claim(tableID uint) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSessionID()
	if _, err := m.store.ClaimTable(tableID, id); err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:           id,
		TableID:      tableID,
		StartTime:    now,
		LastActivity: now,
		Cart:         cart.New(),
	}
	m.sessions[id] = sess
	m.byTable[tableID] = id
	utils.InfoLogger.Printf("Session %s opened on table %d", id, tableID)
	return sess, nil
}

// nextSessionID is time-derived (SESSION-<unix ms>) with a collision bump.
// Must be called with m.mu held.
func (m *Manager) nextSessionID() string {
	ms := time.Now().UnixMilli()
	if ms <= m.lastID {
		ms = m.lastID + 1
	}
	m.lastID = ms
	return fmt.Sprintf("SESSION-%d", ms)
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *Manager) GetByTable(tableID uint) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byTable[tableID]
	if !ok {
		return nil, false
	}
	sess, ok := m.sessions[id]
	return sess, ok
}

// Touch refreshes the session and its table on any tracked user activity.
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return store.ErrNotFound
	}
	sess.LastActivity = time.Now()
	sess.warned = false
	tableID := sess.TableID
	m.mu.Unlock()

	return m.store.TouchTable(tableID)
}

// Leave ends the session on explicit checkout-and-leave: the table is freed
// and the cart discarded.
func (m *Manager) Leave(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return store.ErrNotFound
	}
	m.removeLocked(sess)
	m.mu.Unlock()

	if _, err := m.store.FreeTable(sess.TableID); err != nil && err != store.ErrNotFound && err != store.ErrIllegalTransition {
		return err
	}
	utils.InfoLogger.Printf("Session %s left table %d", sess.ID, sess.TableID)
	return nil
}

// Switch moves the customer to another table: leave the current one, claim
// the new one. The cart does not follow.
func (m *Manager) Switch(id string, newTableID uint) (*Session, error) {
	if err := m.Leave(id); err != nil {
		return nil, err
	}
	return m.Claim(newTableID)
}

// Expired reports whether the session passed the idle threshold.
func (m *Manager) Expired(sess *Session) bool {
	return time.Since(sess.LastActivity) > m.Timeout
}

// removeLocked drops the session from both indexes. Caller holds m.mu.
func (m *Manager) removeLocked(sess *Session) {
	sess.Cart.Clear()
	delete(m.sessions, sess.ID)
	if m.byTable[sess.TableID] == sess.ID {
		delete(m.byTable, sess.TableID)
	}
}

// Start launches the inactivity sweeper and the table-event listener.
func (m *Manager) Start() {
	m.tableSub = m.bus.Subscribe(events.CollectionTables)

	go func() {
		ticker := time.NewTicker(m.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case ev, ok := <-m.tableSub.C:
				if !ok {
					return
				}
				m.handleTableEvent(ev)
			case <-m.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Session sweeper started")
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		if m.tableSub != nil {
			m.bus.Unsubscribe(m.tableSub)
		}
	})
}

// sweep enforces the 10-minute inactivity timeout with a warning at 9, and
// runs the store-side table inactivity check so occupied tables with no
// orders fall back to available even if their session is already gone.
func (m *Manager) sweep() {
	m.mu.Lock()
	var expired, warned []*Session
	for _, sess := range m.sessions {
		idle := time.Since(sess.LastActivity)
		switch {
		case idle > m.Timeout:
			m.removeLocked(sess)
			expired = append(expired, sess)
		case idle > m.WarningAfter && !sess.warned:
			sess.warned = true
			warned = append(warned, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range warned {
		utils.InfoLogger.Printf("Session %s idle, expiry warning sent", sess.ID)
		if m.OnWarning != nil {
			m.OnWarning(sess)
		}
	}
	for _, sess := range expired {
		if _, err := m.store.FreeTable(sess.TableID); err != nil && err != store.ErrIllegalTransition && err != store.ErrNotFound {
			utils.ErrorLogger.Printf("Error freeing table %d after session expiry: %v", sess.TableID, err)
		}
		utils.InfoLogger.Printf("Session %s expired after inactivity", sess.ID)
		if m.OnExpired != nil {
			m.OnExpired(sess)
		}
	}

	tables, err := m.store.ListTables()
	if err != nil {
		utils.ErrorLogger.Printf("Error listing tables during sweep: %v", err)
		return
	}
	for _, table := range tables {
		if table.Status != models.TableOccupied {
			continue
		}
		if _, err := m.store.CheckTableInactivity(table.ID); err != nil {
			utils.ErrorLogger.Printf("Error checking inactivity for table %d: %v", table.ID, err)
		}
	}
}

// handleTableEvent force-ends the session when staff deactivate the table
// under a seated customer.
func (m *Manager) handleTableEvent(ev events.Event) {
	table, ok := ev.Record.(models.Table)
	if !ok || table.Status != models.TableInactive {
		return
	}

	m.mu.Lock()
	id, ok := m.byTable[table.ID]
	if !ok {
		m.mu.Unlock()
		return
	}
	sess := m.sessions[id]
	m.removeLocked(sess)
	m.mu.Unlock()

	utils.InfoLogger.Printf("Session %s ended: table %d deactivated", sess.ID, table.ID)
	if m.OnEnded != nil {
		m.OnEnded(sess)
	}
}
