package models

import "time"

// Booking status ids are stable seed values, mirrored by the seeded
// BookingStatus rows.
const (
	BookingStatusPending   uint = 1
	BookingStatusServing   uint = 2
	BookingStatusCancelled uint = 3
	BookingStatusCompleted uint = 4
)

type BookingStatus struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	StatusName string `gorm:"type:varchar(50);not null" json:"status_name"`
	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`
}

// Booking is a reservation or walk-in record. It stays in the table after a
// terminal transition (cancelled/completed); IsActive=false marks it closed.
type Booking struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CustomerID   *uint          `gorm:"index" json:"customer_id,omitempty"`
	Customer     *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	BranchID     *uint          `gorm:"index" json:"branch_id,omitempty"`
	Branch       *Branch        `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	TableID      *uint          `gorm:"index" json:"table_id,omitempty"`
	Table        *Table         `gorm:"foreignKey:TableID" json:"table,omitempty"`
	BookingDate  time.Time      `gorm:"not null;index" json:"booking_date"`
	TimeSlot     string         `gorm:"type:varchar(50)" json:"time_slot"`
	NumberGuests int            `json:"number_guests"`
	PrePayment   int            `json:"pre_payment"`
	Email        string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Note         string         `gorm:"type:text" json:"note"`
	IsActive     bool           `gorm:"not null;default:true;index" json:"is_active"`
	StatusID     *uint          `gorm:"index" json:"status_id,omitempty"`
	Status       *BookingStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Orders       []Order        `gorm:"foreignKey:BookingID" json:"orders,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsTerminal reports whether the booking reached a state no transition may
// leave.
func (b *Booking) IsTerminal() bool {
	if b.StatusID == nil {
		return false
	}
	return !b.IsActive && (*b.StatusID == BookingStatusCancelled || *b.StatusID == BookingStatusCompleted)
}
