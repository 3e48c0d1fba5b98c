package models

import "time"

type MenuCategory struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(100);unique"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type MenuItem struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CategoryID  uint          `gorm:"not null;index" json:"category_id"`
	Category    *MenuCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Price       int           `gorm:"not null" json:"price"`
	PriceSale   *int          `json:"price_sale,omitempty"`
	Image       string        `gorm:"type:varchar(255)" json:"image,omitempty"`
	Star        int           `json:"star"`
	Quantity    int           `json:"quantity"`
	IsActive    bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// UnitPrice is the sale price when one is set, otherwise the list price.
func (m *MenuItem) UnitPrice() int {
	if m.PriceSale != nil && *m.PriceSale > 0 {
		return *m.PriceSale
	}
	return m.Price
}
