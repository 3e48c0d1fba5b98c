package models

import "time"

// Order settlement states.
const (
	OrderStatusOpen = 0
	OrderStatusPaid = 1
)

// Order is the running tab of one booking's visit. Amounts are VND integers.
// Totals become immutable once PaymentTime is set.
type Order struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	BookingID      *uint               `gorm:"index" json:"booking_id,omitempty"`
	Booking        *Booking            `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	CustomerID     *uint               `gorm:"index" json:"customer_id,omitempty"`
	Customer       *Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TableID        *uint               `json:"table_id,omitempty"`
	UserID         *uint               `json:"user_id,omitempty"`
	User           *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderDate      time.Time           `gorm:"not null" json:"order_date"`
	TimeIn         *time.Time          `json:"time_in,omitempty"`
	TimeOut        *time.Time          `json:"time_out,omitempty"`
	TotalCost      int                 `json:"total_cost"`
	TotalAmount    int                 `json:"total_amount"`
	RedeemAmount   int                 `json:"redeem_amount"`
	PointsRedeemed int                 `json:"points_redeemed"`
	PointsEarned   int                 `json:"points_earned"`
	PaymentMethod  string              `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	PaymentTime    *time.Time          `gorm:"index" json:"payment_time,omitempty"`
	Status         int                 `json:"status"`
	Notes          string              `gorm:"type:text" json:"notes,omitempty"`
	Details        []OrderDetail       `gorm:"foreignKey:OrderID" json:"details,omitempty"`
	Cancellations  []OrderCancellation `gorm:"foreignKey:OrderID" json:"cancellations,omitempty"`
}

// PayableAmount is the total after redeemed points, never negative.
func (o *Order) PayableAmount() int {
	payable := o.TotalAmount - o.RedeemAmount
	if payable < 0 {
		return 0
	}
	return payable
}

type OrderDetail struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	Order      *Order    `gorm:"foreignKey:OrderID" json:"-"`
	MenuItemID *uint     `json:"menu_item_id,omitempty"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	PriceSale  int       `gorm:"not null" json:"price_sale"`
	Amount     int       `gorm:"not null" json:"amount"`
}

// OrderCancellation is an append-only audit row, one per cancel event.
type OrderCancellation struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OrderID         *uint      `gorm:"index" json:"order_id,omitempty"`
	Order           *Order     `gorm:"foreignKey:OrderID" json:"-"`
	CancelledBy     *uint      `json:"cancelled_by,omitempty"`
	CancelledByUser *User      `gorm:"foreignKey:CancelledBy" json:"cancelled_by_user,omitempty"`
	Description     string     `gorm:"type:varchar(500)" json:"description,omitempty"`
	CancelledTime   *time.Time `json:"cancelled_time,omitempty"`
}
