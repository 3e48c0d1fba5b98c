package models

import "time"

type Branch struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BranchName  string    `gorm:"type:varchar(100);not null" json:"branch_name"`
	Address     string    `gorm:"type:varchar(255)" json:"address"`
	PhoneNumber string    `gorm:"type:varchar(20)" json:"phone_number"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Area struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	AreaName string  `gorm:"type:varchar(100);not null" json:"area_name"`
	BranchID *uint   `gorm:"index" json:"branch_id,omitempty"`
	Branch   *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	IsActive bool    `gorm:"not null;default:true" json:"is_active"`
}
