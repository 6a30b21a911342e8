package models

import "time"

// Menu categories. The catalog has a fixed pair of sections.
const (
	CategorySpecialty = "especialidad"
	CategoryDaily     = "menu-dia"
)

type MenuItem struct {
	ID           string    `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Image        string    `gorm:"type:varchar(255)" json:"image"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	Customizable bool      `gorm:"not null;default:false" json:"customizable"`
	Category     string    `gorm:"type:varchar(20);not null;index" json:"category"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// Catalog is the menu snapshot handed to clients: two named sections.
type Catalog struct {
	Specialties []MenuItem `json:"especialidades"`
	Daily       []MenuItem `json:"menu_dia"`
}

func ValidCategory(c string) bool {
	return c == CategorySpecialty || c == CategoryDaily
}
