package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/utils"
)

// orderTransitions is the order state machine. preparing stays reachable:
// the kitchen enters it explicitly, and confirmed -> ready remains legal for
// orders served without that step.
var orderTransitions = map[string][]string{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderPreparing, models.OrderReady},
	models.OrderPreparing: {models.OrderReady},
	models.OrderReady:     {models.OrderCompleted},
}

func orderTransitionAllowed(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func validateLines(lines []models.OrderLine) (float64, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyOrder
	}
	var total float64
	for _, line := range lines {
		if line.Quantity < 1 {
			return 0, ErrInvalidQuantity
		}
		if line.Price < 0 {
			return 0, ErrInvalidPrice
		}
		total += line.Price * float64(line.Quantity)
	}
	return total, nil
}

// CreateOrder creates a pending order from the given line snapshots, attaches
// it to the table and refreshes the table's activity timestamp.
func (s *Store) CreateOrder(tableID uint, lines []models.OrderLine, sessionID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := validateLines(lines)
	if err != nil {
		return nil, err
	}

	table, err := s.GetTable(tableID)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		ID:        s.nextOrderID(),
		TableID:   tableID,
		SessionID: sessionID,
		Status:    models.OrderPending,
		Total:     total,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:  order.ID,
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Notes:    line.Notes,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		table.OrderIDs = append(table.OrderIDs, order.ID)
		now := time.Now()
		table.LastActivity = &now
		return tx.Save(table).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.CollectionOrders, events.ActionCreate, order)
	s.publish(events.CollectionTables, events.ActionUpdate, *table)
	utils.InfoLogger.Printf("Order %s created for table %d (total %s)",
		order.ID, tableID, utils.FormatCurrency(order.Total))
	return &order, nil
}

// GetOrder looks an active order up by id.
func (s *Store) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// FindOrder looks the order up in the active set first and falls back to
// history, so a watcher polling across a terminal transition still observes
// the final status instead of a disappearance.
func (s *Store) FindOrder(id string) (*models.Order, error) {
	order, err := s.GetOrder(id)
	if err == nil {
		return order, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	var arch models.ArchivedOrder
	if err := s.db.First(&arch, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	restored := models.Order{
		ID:          arch.ID,
		TableID:     arch.TableID,
		SessionID:   arch.SessionID,
		Status:      arch.Status,
		Total:       arch.Total,
		CreatedAt:   arch.CreatedAt,
		ConfirmedAt: arch.ConfirmedAt,
		ReadyAt:     arch.ReadyAt,
		CompletedAt: arch.CompletedAt,
		UpdatedAt:   arch.ArchivedAt,
	}
	for _, line := range arch.Items {
		restored.Items = append(restored.Items, models.OrderItem{
			OrderID:  arch.ID,
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Notes:    line.Notes,
		})
	}
	return &restored, nil
}

// ListOrders returns every active order, oldest first.
func (s *Store) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Order("created_at asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListTableOrders returns the active orders attached to one table.
func (s *Store) ListTableOrders(tableID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").
		Where("table_id = ?", tableID).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListPendingOrders returns orders still waiting for staff confirmation.
func (s *Store) ListPendingOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").
		Where("status = ?", models.OrderPending).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListActiveOrders returns orders not yet ready: pending, confirmed or
// preparing.
func (s *Store) ListActiveOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").
		Where("status IN ?", []string{models.OrderPending, models.OrderConfirmed, models.OrderPreparing}).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus applies one transition of the order state machine and
// stamps the matching timestamp. completed and cancelled archive the order in
// the same transaction: it lands in history and leaves the active set as one
// atomic move, never split across both.
func (s *Store) UpdateOrderStatus(id, status string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	return s.applyOrderStatusLocked(order, status, false)
}

func (s *Store) applyOrderStatusLocked(order *models.Order, status string, force bool) (*models.Order, error) {
	if !force && !orderTransitionAllowed(order.Status, status) {
		return nil, ErrIllegalTransition
	}

	now := time.Now()
	order.Status = status
	order.UpdatedAt = now
	switch status {
	case models.OrderConfirmed:
		order.ConfirmedAt = &now
	case models.OrderReady:
		order.ReadyAt = &now
	case models.OrderCompleted, models.OrderCancelled:
		order.CompletedAt = &now
	}

	if models.Terminal(status) {
		if err := s.archiveLocked(order, now); err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Save(order).Error; err != nil {
			return nil, err
		}
	}

	s.publish(events.CollectionOrders, events.ActionUpdate, *order)
	utils.InfoLogger.Printf("Order %s status changed to %s", order.ID, status)
	return order, nil
}

// archiveLocked moves a terminal order into history: insert the archive row,
// drop the active row and its items, detach the id from the table. All inside
// one transaction so a failed write leaves the order fully active.
func (s *Store) archiveLocked(order *models.Order, archivedAt time.Time) error {
	arch := models.ArchivedOrder{
		ID:          order.ID,
		TableID:     order.TableID,
		SessionID:   order.SessionID,
		Status:      order.Status,
		Total:       order.Total,
		Items:       order.Lines(),
		CreatedAt:   order.CreatedAt,
		ConfirmedAt: order.ConfirmedAt,
		ReadyAt:     order.ReadyAt,
		CompletedAt: order.CompletedAt,
		ArchivedAt:  archivedAt,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&arch).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Order{}, "id = ?", order.ID).Error; err != nil {
			return err
		}

		var table models.Table
		if err := tx.First(&table, order.TableID).Error; err != nil {
			// Table may have been reset already; archival still stands.
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		if table.OrderIDs.Contains(order.ID) {
			table.OrderIDs = table.OrderIDs.Without(order.ID)
			if err := tx.Save(&table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateOrderItems replaces a pending order's lines and recomputes the total.
// Anything past pending is immutable and the call fails without touching it.
func (s *Store) UpdateOrderItems(id string, lines []models.OrderLine) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, ErrOrderNotEditable
	}

	total, err := validateLines(lines)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			OrderID:  order.ID,
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Notes:    line.Notes,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Total = total
		order.UpdatedAt = time.Now()
		return tx.Omit("Items").Save(order).Error
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	s.publish(events.CollectionOrders, events.ActionUpdate, *order)
	return order, nil
}

// DeleteOrder removes a pending order entirely and detaches it from its
// table. Orders past pending cannot be deleted.
func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderPending {
		return ErrOrderNotEditable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Order{}, "id = ?", order.ID).Error; err != nil {
			return err
		}

		var table models.Table
		if err := tx.First(&table, order.TableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		table.OrderIDs = table.OrderIDs.Without(order.ID)
		return tx.Save(&table).Error
	})
	if err != nil {
		return err
	}

	s.publish(events.CollectionOrders, events.ActionDelete, *order)
	utils.InfoLogger.Printf("Order %s deleted", order.ID)
	return nil
}

// ListHistory returns archived orders, newest first.
func (s *Store) ListHistory() ([]models.ArchivedOrder, error) {
	var history []models.ArchivedOrder
	if err := s.db.Order("archived_at desc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}
