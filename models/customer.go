package models

import "time"

type Customer struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	FullName       string          `gorm:"type:varchar(100)" json:"full_name"`
	PhoneNumber    string          `gorm:"type:varchar(20);index" json:"phone_number"`
	Email          string          `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address        string          `gorm:"type:varchar(255)" json:"address,omitempty"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	MembershipCard *MembershipCard `gorm:"foreignKey:CustomerID" json:"membership_card,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
