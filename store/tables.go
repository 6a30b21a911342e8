package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/utils"
)

// tableTransitions is the table state machine. occupied -> inactive is
// allowed because staff may take a table out of service while a customer is
// seated; the relay then ends that customer's session.
var tableTransitions = map[string][]string{
	models.TableAvailable: {models.TableOccupied, models.TableInactive},
	models.TableOccupied:  {models.TableAvailable, models.TableInactive},
	models.TableInactive:  {models.TableAvailable},
}

func tableTransitionAllowed(from, to string) bool {
	for _, s := range tableTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// GetTable looks a table up by id.
func (s *Store) GetTable(id uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &table, nil
}

// ListTables returns every table ordered by id.
func (s *Store) ListTables() ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Order("id asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// ClaimTable moves an available table to occupied and binds the session.
func (s *Store) ClaimTable(id uint, sessionID string) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.GetTable(id)
	if err != nil {
		return nil, err
	}
	if table.Status != models.TableAvailable {
		return nil, ErrTableUnavailable
	}

	now := time.Now()
	table.Status = models.TableOccupied
	table.SessionStart = &now
	table.SessionID = &sessionID
	table.LastActivity = &now

	if err := s.db.Save(table).Error; err != nil {
		return nil, err
	}
	s.publish(events.CollectionTables, events.ActionUpdate, *table)
	utils.InfoLogger.Printf("Table %d occupied by session %s", table.ID, sessionID)
	return table, nil
}

// FreeTable moves an occupied table back to available and clears the session
// fields and the attached-order list.
func (s *Store) FreeTable(id uint) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freeTableLocked(id)
}

func (s *Store) freeTableLocked(id uint) (*models.Table, error) {
	table, err := s.GetTable(id)
	if err != nil {
		return nil, err
	}
	if !tableTransitionAllowed(table.Status, models.TableAvailable) {
		return nil, ErrIllegalTransition
	}

	table.Status = models.TableAvailable
	table.SessionStart = nil
	table.SessionID = nil
	table.OrderIDs = models.IDList{}
	table.LastActivity = nil

	if err := s.db.Save(table).Error; err != nil {
		return nil, err
	}
	s.publish(events.CollectionTables, events.ActionUpdate, *table)
	utils.InfoLogger.Printf("Table %d freed", table.ID)
	return table, nil
}

// ResetTable frees a table and cancels whatever active orders it still has.
// The orders go to history as cancelled so they never linger in the active
// set without a table.
func (s *Store) ResetTable(id uint) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetTable(id); err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := s.db.Preload("Items").Where("table_id = ?", id).Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		if _, err := s.applyOrderStatusLocked(&orders[i], models.OrderCancelled, true); err != nil {
			return nil, err
		}
	}

	return s.freeTableLocked(id)
}

// ActivateTable puts an out-of-service table back in rotation.
func (s *Store) ActivateTable(id uint) (*models.Table, error) {
	return s.setServiceStatus(id, models.TableAvailable)
}

// DeactivateTable takes a table out of service. A seated customer's relay
// will pick the change up and end their session.
func (s *Store) DeactivateTable(id uint) (*models.Table, error) {
	return s.setServiceStatus(id, models.TableInactive)
}

func (s *Store) setServiceStatus(id uint, status string) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.GetTable(id)
	if err != nil {
		return nil, err
	}
	if table.Status == status {
		return table, nil
	}
	if !tableTransitionAllowed(table.Status, status) {
		return nil, ErrIllegalTransition
	}

	table.Status = status
	table.SessionStart = nil
	table.SessionID = nil
	table.OrderIDs = models.IDList{}
	table.LastActivity = nil

	if err := s.db.Save(table).Error; err != nil {
		return nil, err
	}
	s.publish(events.CollectionTables, events.ActionUpdate, *table)
	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, status)
	return table, nil
}

// TouchTable refreshes a table's last-activity timestamp.
func (s *Store) TouchTable(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchTableLocked(s.db, id)
}

func (s *Store) touchTableLocked(tx *gorm.DB, id uint) error {
	now := time.Now()
	res := tx.Model(&models.Table{}).Where("id = ?", id).Update("last_activity", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckTableInactivity frees an occupied table that has no orders and has
// been idle past the session timeout. Returns true when the table was freed.
// Intended to run on the periodic sweep, not on every read.
func (s *Store) CheckTableInactivity(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.GetTable(id)
	if err != nil {
		return false, err
	}
	if table.Status != models.TableOccupied || len(table.OrderIDs) > 0 {
		return false, nil
	}
	if table.LastActivity == nil || time.Since(*table.LastActivity) <= s.sessionTimeout {
		return false, nil
	}

	if _, err := s.freeTableLocked(id); err != nil {
		return false, err
	}
	utils.InfoLogger.Printf("Table %d freed after inactivity timeout", id)
	return true, nil
}
