package models

import "time"

const (
	CardStatusActive = "Active"
	CardStatusLocked = "Locked"
)

// Point ledger change types. Points are always stored positive; ChangeType
// carries the direction.
const (
	PointChangeEarn = "Earn"
	PointChangeUse  = "Use"
)

type MembershipCard struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CustomerID  uint           `gorm:"not null;index" json:"customer_id"`
	CardNumber  string         `gorm:"type:varchar(20);unique;not null" json:"card_number"`
	Points      int            `gorm:"not null;default:0" json:"points"`
	Status      string         `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedDate time.Time      `gorm:"not null" json:"created_date"`
	Histories   []PointHistory `gorm:"foreignKey:CardID" json:"histories,omitempty"`
}

type PointHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CardID      uint      `gorm:"not null;index" json:"card_id"`
	ChangeType  string    `gorm:"type:varchar(10);not null" json:"change_type"`
	Points      int       `gorm:"not null" json:"points"`
	ReferenceID *uint     `gorm:"index" json:"reference_id,omitempty"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
}
