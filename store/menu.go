package store

import (
	"strings"
	"time"

	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/utils"
)

// MenuItemInput carries the staff-provided fields for a new dish.
type MenuItemInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Customizable bool    `json:"customizable"`
	Category     string  `json:"category" binding:"required"`
}

// MenuItemUpdate carries optional edits; nil fields are left untouched.
type MenuItemUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Active      *bool    `json:"active"`
}

// ListMenu returns the full catalog grouped into its two sections. With
// activeOnly set, disabled dishes are filtered out (the customer view).
func (s *Store) ListMenu(activeOnly bool) (*models.Catalog, error) {
	var items []models.MenuItem
	q := s.db.Order("created_at asc")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}

	catalog := &models.Catalog{
		Specialties: []models.MenuItem{},
		Daily:       []models.MenuItem{},
	}
	for _, item := range items {
		if item.Category == models.CategorySpecialty {
			catalog.Specialties = append(catalog.Specialties, item)
		} else {
			catalog.Daily = append(catalog.Daily, item)
		}
	}
	return catalog, nil
}

// GetMenuItem looks a dish up by id.
func (s *Store) GetMenuItem(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// AddMenuItem creates a dish with a fresh category+timestamp id, active by
// default.
func (s *Store) AddMenuItem(input MenuItemInput) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEmptyName
	}
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if !models.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	item := models.MenuItem{
		ID:           s.nextMenuID(input.Category),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Price:        input.Price,
		Image:        input.Image,
		Active:       true,
		Customizable: input.Customizable,
		Category:     input.Category,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}

	s.publish(events.CollectionMenu, events.ActionCreate, item)
	utils.InfoLogger.Printf("Menu item %s created: %s (%s)", item.ID, item.Name, utils.FormatCurrency(item.Price))
	return &item, nil
}

// UpdateMenuItem applies the non-nil edits.
func (s *Store) UpdateMenuItem(id string, update MenuItemUpdate) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.GetMenuItem(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, ErrEmptyName
		}
		item.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Price != nil {
		if *update.Price < 0 {
			return nil, ErrInvalidPrice
		}
		item.Price = *update.Price
	}
	if update.Image != nil {
		item.Image = *update.Image
	}
	if update.Active != nil {
		item.Active = *update.Active
	}
	item.UpdatedAt = time.Now()

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	s.publish(events.CollectionMenu, events.ActionUpdate, *item)
	return item, nil
}

// ToggleMenuItem flips a dish's active flag.
func (s *Store) ToggleMenuItem(id string) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.GetMenuItem(id)
	if err != nil {
		return nil, err
	}
	item.Active = !item.Active
	item.UpdatedAt = time.Now()
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	s.publish(events.CollectionMenu, events.ActionUpdate, *item)
	utils.InfoLogger.Printf("Menu item %s active=%t", item.ID, item.Active)
	return item, nil
}

// DeleteMenuItem removes a dish outright. No tombstone: existing order lines
// keep their snapshots, and the id is never handed out again.
func (s *Store) DeleteMenuItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.GetMenuItem(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return err
	}
	s.publish(events.CollectionMenu, events.ActionDelete, *item)
	utils.InfoLogger.Printf("Menu item %s deleted", id)
	return nil
}
