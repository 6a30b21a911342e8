package store

import (
	"time"

	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/utils"
)

// Seed creates the initial tables and the house catalog on first run. It is
// idempotent: existing rows are left alone.
func (s *Store) Seed(tableCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tables int64
	if err := s.db.Model(&models.Table{}).Count(&tables).Error; err != nil {
		return err
	}
	if tables == 0 {
		for i := 1; i <= tableCount; i++ {
			table := models.Table{
				ID:       uint(i),
				Status:   models.TableAvailable,
				OrderIDs: models.IDList{},
			}
			if err := s.db.Create(&table).Error; err != nil {
				return err
			}
		}
		utils.InfoLogger.Printf("Seeded %d tables", tableCount)
	}

	var dishes int64
	if err := s.db.Model(&models.MenuItem{}).Count(&dishes).Error; err != nil {
		return err
	}
	if dishes == 0 {
		for _, item := range seedCatalog() {
			if err := s.db.Create(&item).Error; err != nil {
				return err
			}
		}
		utils.InfoLogger.Println("Seeded house catalog")
	}
	return nil
}

func seedCatalog() []models.MenuItem {
	now := time.Now()
	items := []models.MenuItem{
		{
			ID:          "esp-1",
			Name:        "Espresso Italiano",
			Description: "Cuerpo intenso con notas de chocolate amargo y crema persistente",
			Price:       2.50, Image: "platos/espresso.jpg",
			Customizable: true, Category: models.CategorySpecialty,
		},
		{
			ID:          "esp-2",
			Name:        "Cappuccino Vainilla",
			Description: "Espresso con leche cremosa al vapor y un toque suave de vainilla francesa",
			Price:       3.85, Image: "platos/capuchino.jpg",
			Customizable: true, Category: models.CategorySpecialty,
		},
		{
			ID:          "esp-3",
			Name:        "Latte Art Caramelo",
			Description: "Suave combinación de leche y café con hilos de caramelo artesanal",
			Price:       4.25, Image: "platos/latte.jpg",
			Customizable: true, Category: models.CategorySpecialty,
		},
		{
			ID:          "esp-4",
			Name:        "Mocha Blanco Frost",
			Description: "Café premium mezclado con chocolate blanco y topping de nata",
			Price:       4.50, Image: "platos/moca.jpg",
			Customizable: true, Category: models.CategorySpecialty,
		},
		{
			ID:          "dia-1",
			Name:        "Desayuno Criollo",
			Description: "Bolón de queso, huevo frito y café pasado",
			Price:       5.50, Image: "platos/desayuno.jpg",
			Customizable: true, Category: models.CategoryDaily,
		},
		{
			ID:          "dia-2",
			Name:        "Tostadas Francesas",
			Description: "Pan brioche con miel de maple y frutas de estación",
			Price:       4.50, Image: "platos/tostadas.jpg",
			Customizable: true, Category: models.CategoryDaily,
		},
		{
			ID:          "dia-3",
			Name:        "Tiramisú de la Casa",
			Description: "Capas sedosas de mascarpone, bizcochos bañados en espresso y un toque de cacao puro",
			Price:       4.75, Image: "platos/tiramisu.jpg",
			Customizable: false, Category: models.CategoryDaily,
		},
	}
	for i := range items {
		items[i].Active = true
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}
	return items
}
