package models

import (
	"strings"
	"time"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	UserName  string `gorm:"type:varchar(100);unique;not null"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(255);unique;not null"`
	Password  string `gorm:"type:varchar(255);not null"`
	Role      string `gorm:"type:varchar(50);not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName joins "LastName FirstName" (Vietnamese name order), falling
// back to the login name.
func (u *User) DisplayName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{u.LastName, u.FirstName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return u.UserName
}
