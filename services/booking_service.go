package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

var (
	ErrBookingNotFound    = errors.New("không tìm thấy đặt bàn")
	ErrBookingClosed      = errors.New("đặt bàn đã kết thúc")
	ErrBookingCompleted   = errors.New("đặt bàn đã hoàn thành")
	ErrBookingCancelled   = errors.New("đặt bàn đã huỷ")
	ErrTableNotFound      = errors.New("không tìm thấy bàn")
	ErrTableUnavailable   = errors.New("bàn đã được đặt trong khung giờ này")
	ErrTableNotAssigned   = errors.New("đặt bàn chưa được xếp bàn")
	ErrMenuItemNotFound   = errors.New("không tìm thấy món ăn")
	ErrNoOpenOrder        = errors.New("đặt bàn chưa có đơn hàng đang mở")
	ErrOrderAlreadyPaid   = errors.New("đơn hàng đã được thanh toán")
	ErrInsufficientTender = errors.New("số tiền khách đưa không đủ")
	ErrInvalidQuantity    = errors.New("số lượng không hợp lệ")
)

// BookingService drives the reservation lifecycle: create, assign a table,
// check in, build the order, pay or cancel. Mutations that touch both a
// booking and a table run in one transaction with the table row locked, so
// two staff members racing for the same table cannot both win.
type BookingService struct {
	DB         *gorm.DB
	Statuses   StatusSet
	Membership *MembershipService
	Notifier   *BookingNotifier
}

func NewBookingService(db *gorm.DB, statuses StatusSet, membership *MembershipService, notifier *BookingNotifier) *BookingService {
	return &BookingService{DB: db, Statuses: statuses, Membership: membership, Notifier: notifier}
}

// DateOnly drops the time-of-day part so bookings compare by calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// lockForUpdate takes a row lock on databases that support it. SQLite has no
// FOR UPDATE; its single writer already serializes the transaction.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func sameSlot(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func appendNote(existing, line string) string {
	if strings.TrimSpace(existing) == "" {
		return line
	}
	return existing + "\n" + line
}

// IsTableAvailable reports whether the table is free for the given date and
// time slot. Another active booking on the same table, same day and same
// trimmed slot makes it unavailable; ignoreBookingID excludes the booking
// being re-assigned.
func (s *BookingService) IsTableAvailable(tx *gorm.DB, tableID uint, date time.Time, slot string, ignoreBookingID *uint) (bool, error) {
	query := tx.Model(&models.Booking{}).
		Where("table_id = ? AND booking_date = ? AND is_active = ?", tableID, DateOnly(date), true)
	if ignoreBookingID != nil {
		query = query.Where("id <> ?", *ignoreBookingID)
	}

	var candidates []models.Booking
	if err := query.Find(&candidates).Error; err != nil {
		return false, err
	}
	for _, candidate := range candidates {
		if sameSlot(candidate.TimeSlot, slot) {
			return false, nil
		}
	}
	return true, nil
}

type BookingCreateInput struct {
	CustomerName string
	PhoneNumber  string
	Email        string
	BranchID     *uint
	BookingDate  time.Time
	TimeSlot     string
	NumberGuests int
	PrePayment   int
	Note         string
}

// CreateBooking registers a reservation. No table is held yet; staff assign
// one later. The customer record is looked up by phone number and created on
// first contact.
func (s *BookingService) CreateBooking(in BookingCreateInput) (*models.Booking, error) {
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return nil, errors.New("số điện thoại không được để trống")
	}
	if strings.TrimSpace(in.TimeSlot) == "" {
		return nil, errors.New("vui lòng chọn khung giờ")
	}

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		customer, err := findOrCreateCustomer(tx, in.CustomerName, in.PhoneNumber, in.Email)
		if err != nil {
			return err
		}

		statusID := models.BookingStatusPending
		booking = models.Booking{
			CustomerID:   &customer.ID,
			BranchID:     in.BranchID,
			BookingDate:  DateOnly(in.BookingDate),
			TimeSlot:     strings.TrimSpace(in.TimeSlot),
			NumberGuests: in.NumberGuests,
			PrePayment:   in.PrePayment,
			Email:        in.Email,
			Note:         in.Note,
			IsActive:     true,
			StatusID:     &statusID,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

type WalkInInput struct {
	CustomerName string
	PhoneNumber  string
	TableID      uint
	NumberGuests int
	Note         string
	UserID       *uint
}

// CreateWalkIn seats a customer without a prior reservation. The time slot is
// the current clock time and the booking starts directly in the serving
// state with an open order.
func (s *BookingService) CreateWalkIn(in WalkInInput) (*models.Booking, error) {
	now := time.Now()
	var booking models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := lockForUpdate(tx).Preload("Area").First(&table, in.TableID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		if err != nil {
			return err
		}
		if table.StatusID == nil || *table.StatusID != s.Statuses.TableAvailable {
			return ErrTableUnavailable
		}

		customer, err := findOrCreateCustomer(tx, in.CustomerName, in.PhoneNumber, "")
		if err != nil {
			return err
		}

		var branchID *uint
		if table.Area != nil {
			branchID = table.Area.BranchID
		}

		statusID := models.BookingStatusServing
		booking = models.Booking{
			CustomerID:   &customer.ID,
			BranchID:     branchID,
			TableID:      &table.ID,
			BookingDate:  DateOnly(now),
			TimeSlot:     now.Format("15:04"),
			NumberGuests: in.NumberGuests,
			Note:         in.Note,
			IsActive:     true,
			StatusID:     &statusID,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		timeIn := now
		order := models.Order{
			BookingID:  &booking.ID,
			CustomerID: &customer.ID,
			TableID:    &table.ID,
			UserID:     in.UserID,
			OrderDate:  now,
			TimeIn:     &timeIn,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Model(&table).Update("status_id", s.Statuses.TableServing).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// AssignTable reserves a table for the booking. The table row is locked for
// the duration of the transaction so a concurrent assignment of the same
// table either waits or sees the conflict. A previously assigned table is
// released back to available, and the booking's branch follows the new
// table's area.
func (s *BookingService) AssignTable(bookingID, tableID uint) (*models.Booking, error) {
	var booking models.Booking
	var table models.Table
	var branch *models.Branch

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Customer").First(&booking, bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return ErrBookingClosed
		}

		err = lockForUpdate(tx).Preload("Area.Branch").First(&table, tableID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		if err != nil {
			return err
		}

		available, err := s.IsTableAvailable(tx, tableID, booking.BookingDate, booking.TimeSlot, &booking.ID)
		if err != nil {
			return err
		}
		if !available {
			return ErrTableUnavailable
		}

		// Release the previous table before taking the new one.
		if booking.TableID != nil && *booking.TableID != tableID {
			if err := tx.Model(&models.Table{}).Where("id = ?", *booking.TableID).
				Update("status_id", s.Statuses.TableAvailable).Error; err != nil {
				return err
			}
		}

		newStatus := s.Statuses.TableReserved
		if booking.StatusID != nil && *booking.StatusID == models.BookingStatusServing {
			newStatus = s.Statuses.TableServing
		}
		if err := tx.Model(&table).Update("status_id", newStatus).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"table_id": table.ID}
		if table.Area != nil && table.Area.BranchID != nil {
			updates["branch_id"] = *table.Area.BranchID
			branch = table.Area.Branch
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.Notifier.SendTableAssignment(&booking, &table, branch)
	return &booking, nil
}

// CheckIn opens the visit: the booking moves to serving, the table moves to
// serving and an order is created with its arrival time stamped. Calling it
// again returns the existing open order without touching TimeIn.
func (s *BookingService) CheckIn(bookingID uint, userID *uint) (*models.Order, error) {
	var order models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.First(&booking, bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return ErrBookingClosed
		}
		if booking.TableID == nil {
			return ErrTableNotAssigned
		}

		err = tx.Where("booking_id = ? AND payment_time IS NULL", booking.ID).First(&order).Error
		switch {
		case err == nil:
			if order.TimeIn == nil {
				now := time.Now()
				if err := tx.Model(&order).Update("time_in", now).Error; err != nil {
					return err
				}
				order.TimeIn = &now
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now()
			order = models.Order{
				BookingID:  &booking.ID,
				CustomerID: booking.CustomerID,
				TableID:    booking.TableID,
				UserID:     userID,
				OrderDate:  now,
				TimeIn:     &now,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := tx.Model(&models.Table{}).Where("id = ?", *booking.TableID).
			Update("status_id", s.Statuses.TableServing).Error; err != nil {
			return err
		}
		return tx.Model(&booking).Updates(map[string]interface{}{
			"status_id": models.BookingStatusServing,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// openOrder finds the booking's unpaid order.
func openOrder(tx *gorm.DB, bookingID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Where("booking_id = ? AND payment_time IS NULL", bookingID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenOrder
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CurrentOrder returns the booking's open order with its lines. A serving
// booking with no order yet gets one opened on the spot, so the order screen
// works even when check-in happened in the old system.
func (s *BookingService) CurrentOrder(bookingID uint) (*models.Order, error) {
	var order models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.First(&booking, bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Where("booking_id = ? AND payment_time IS NULL", booking.ID).First(&order).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		serving := booking.StatusID != nil && *booking.StatusID == models.BookingStatusServing
		if !booking.IsActive || !serving {
			return ErrNoOpenOrder
		}

		order = models.Order{
			BookingID:  &booking.ID,
			CustomerID: booking.CustomerID,
			TableID:    booking.TableID,
			OrderDate:  time.Now(),
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Details.MenuItem").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// recomputeOrderTotal rewrites the order total from its line items.
func recomputeOrderTotal(tx *gorm.DB, orderID uint) (int, error) {
	var total int
	err := tx.Model(&models.OrderDetail{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total_amount", total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// AddOrderItem puts a dish on the booking's open order, snapshotting the
// price at order time. Ordering the same dish again raises the quantity of
// the existing line instead of duplicating it.
func (s *BookingService) AddOrderItem(bookingID, menuItemID uint, quantity int) (*models.OrderDetail, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var detail models.OrderDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.First(&booking, bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return ErrBookingClosed
		}

		order, err := openOrder(tx, booking.ID)
		if err != nil {
			return err
		}

		var item models.MenuItem
		err = tx.Where("is_active = ?", true).First(&item, menuItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		if err != nil {
			return err
		}

		unitPrice := item.UnitPrice()
		err = tx.Where("order_id = ? AND menu_item_id = ?", order.ID, item.ID).First(&detail).Error
		switch {
		case err == nil:
			detail.Quantity += quantity
			detail.Amount = detail.PriceSale * detail.Quantity
			if err := tx.Save(&detail).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			detail = models.OrderDetail{
				OrderID:    order.ID,
				MenuItemID: &item.ID,
				Quantity:   quantity,
				PriceSale:  unitPrice,
				Amount:     unitPrice * quantity,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
		default:
			return err
		}

		_, err = recomputeOrderTotal(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateOrderItem changes a line's quantity. Quantity zero removes the line.
// Lines of a paid order are frozen.
func (s *BookingService) UpdateOrderItem(detailID uint, quantity int) (*models.OrderDetail, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var detail models.OrderDetail
	deleted := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Order").First(&detail, detailID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("không tìm thấy món trong đơn hàng")
		}
		if err != nil {
			return err
		}
		if detail.Order != nil && detail.Order.PaymentTime != nil {
			return ErrOrderAlreadyPaid
		}

		if quantity == 0 {
			if err := tx.Delete(&models.OrderDetail{}, detail.ID).Error; err != nil {
				return err
			}
			deleted = true
		} else {
			detail.Quantity = quantity
			detail.Amount = detail.PriceSale * quantity
			if err := tx.Save(&detail).Error; err != nil {
				return err
			}
		}

		_, err = recomputeOrderTotal(tx, detail.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if deleted {
		return nil, nil
	}
	return &detail, nil
}

// OrderTotal returns the amount currently owed on the booking's open order.
// Orders without stored line items keep whatever positive total was written
// on them, which covers records imported from the old system.
func (s *BookingService) OrderTotal(order *models.Order) (int, error) {
	var count int64
	if err := s.DB.Model(&models.OrderDetail{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		if order.TotalAmount > 0 {
			return order.TotalAmount, nil
		}
		return 0, nil
	}
	var total int
	err := s.DB.Model(&models.OrderDetail{}).
		Where("order_id = ?", order.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type PaymentInput struct {
	BookingID    uint
	Method       string
	AmountGiven  int
	Notes        string
	UserID       *uint
	RedeemPoints int
}

// CompletePayment settles the open order and closes the visit. The tendered
// amount must cover the payable total before anything is written; redeemed
// points lower the payable total at 1,000đ each and paid amounts earn one
// point per 10,000đ. The booking ends completed and the table opens up.
func (s *BookingService) CompletePayment(in PaymentInput) (*models.Order, error) {
	var order *models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.First(&booking, in.BookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if booking.StatusID != nil && *booking.StatusID == models.BookingStatusCancelled {
			return ErrBookingCancelled
		}

		order, err = openOrder(tx, booking.ID)
		if err != nil {
			return err
		}

		total, err := s.orderTotalTx(tx, order)
		if err != nil {
			return err
		}

		// A missing or non-active card skips the loyalty step, it never
		// blocks the payment.
		redeemedPoints, redeemAmount := 0, 0
		if in.RedeemPoints > 0 && booking.CustomerID != nil {
			redeemedPoints, redeemAmount, err = s.Membership.RedeemPoints(tx, *booking.CustomerID, order.ID, in.RedeemPoints)
			switch {
			case err == nil, errors.Is(err, ErrAlreadyRedeemed):
			case errors.Is(err, ErrCardNotFound), errors.Is(err, ErrCardInactive):
				utils.InfoLogger.Infof("Bỏ qua dùng điểm cho đơn hàng %d: %v", order.ID, err)
				redeemedPoints, redeemAmount = 0, 0
			default:
				return err
			}
		}

		payable := total - redeemAmount
		if payable < 0 {
			payable = 0
		}
		if in.AmountGiven < payable {
			return ErrInsufficientTender
		}
		change := in.AmountGiven - payable

		earnedPoints := 0
		if booking.CustomerID != nil {
			earnedPoints, err = s.Membership.AwardPoints(tx, *booking.CustomerID, order.ID, payable)
			switch {
			case err == nil, errors.Is(err, ErrAlreadyEarned):
			case errors.Is(err, ErrCardNotFound):
			case errors.Is(err, ErrCardInactive):
				utils.InfoLogger.Infof("Bỏ qua tích điểm cho đơn hàng %d: %v", order.ID, err)
				earnedPoints = 0
			default:
				return err
			}
		}

		now := time.Now()
		paymentLine := fmt.Sprintf("Khách trả %s ₫ · Thối lại %s ₫",
			utils.FormatVND(in.AmountGiven), utils.FormatVND(change))
		notes := appendNote(order.Notes, paymentLine)
		if strings.TrimSpace(in.Notes) != "" {
			notes = appendNote(notes, in.Notes)
		}

		updates := map[string]interface{}{
			"total_amount":    total,
			"total_cost":      total,
			"redeem_amount":   redeemAmount,
			"points_redeemed": redeemedPoints,
			"points_earned":   earnedPoints,
			"payment_method":  in.Method,
			"payment_time":    now,
			"status":          models.OrderStatusPaid,
			"notes":           notes,
		}
		if order.TimeOut == nil {
			updates["time_out"] = now
		}
		if in.UserID != nil {
			updates["user_id"] = *in.UserID
		}
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"is_active": false,
			"status_id": models.BookingStatusCompleted,
		}).Error; err != nil {
			return err
		}

		if booking.TableID != nil {
			if err := tx.Model(&models.Table{}).Where("id = ?", *booking.TableID).
				Update("status_id", s.Statuses.TableAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Details.MenuItem").First(order, order.ID).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (s *BookingService) orderTotalTx(tx *gorm.DB, order *models.Order) (int, error) {
	var count int64
	if err := tx.Model(&models.OrderDetail{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		if order.TotalAmount > 0 {
			return order.TotalAmount, nil
		}
		return 0, nil
	}
	var total int
	err := tx.Model(&models.OrderDetail{}).
		Where("order_id = ?", order.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type CancelInput struct {
	BookingID uint
	Reason    string
	UserID    *uint
	StatusID  *uint // defaults to cancelled
}

// Cancel closes the booking with a reason. The reason is appended to the
// booking note and written to the order cancellation audit trail against the
// most recent order, with a null order reference when the booking never
// opened one; cancelling twice appends and audits twice. Completed
// bookings cannot be cancelled.
func (s *BookingService) Cancel(in CancelInput) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Customer").First(&booking, in.BookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if booking.StatusID != nil && *booking.StatusID == models.BookingStatusCompleted {
			return ErrBookingCompleted
		}

		statusID := models.BookingStatusCancelled
		if in.StatusID != nil {
			statusID = *in.StatusID
		}

		note := appendNote(booking.Note, "Huỷ: "+in.Reason)
		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"is_active": false,
			"status_id": statusID,
			"note":      note,
		}).Error; err != nil {
			return err
		}
		booking.Note = note
		booking.IsActive = false
		booking.StatusID = &statusID

		// The audit row is written even for bookings that never opened an
		// order; OrderID stays null then.
		var orderID *uint
		var latest models.Order
		err = tx.Where("booking_id = ?", booking.ID).
			Order("COALESCE(payment_time, order_date) DESC").
			First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			orderID = &latest.ID
		}

		now := time.Now()
		audit := models.OrderCancellation{
			OrderID:       orderID,
			CancelledBy:   in.UserID,
			Description:   in.Reason,
			CancelledTime: &now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if booking.TableID != nil {
			if err := tx.Model(&models.Table{}).Where("id = ?", *booking.TableID).
				Update("status_id", s.Statuses.TableAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.Notifier.SendBookingCancelled(&booking, in.Reason)
	return &booking, nil
}

// AvailableTables lists tables free for the date and slot, optionally within
// one branch. Tables held in a maintenance status never show up.
func (s *BookingService) AvailableTables(date time.Time, slot string, branchID *uint) ([]models.Table, error) {
	query := s.DB.Preload("Area").Preload("Type").Preload("Status").
		Where("tables.is_active = ?", true).
		Where("tables.status_id IN ?", []uint{s.Statuses.TableAvailable, s.Statuses.TableReserved, s.Statuses.TableServing})
	if branchID != nil {
		query = query.Joins("JOIN areas ON areas.id = tables.area_id").
			Where("areas.branch_id = ?", *branchID)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		return nil, err
	}

	free := make([]models.Table, 0, len(tables))
	for _, table := range tables {
		available, err := s.IsTableAvailable(s.DB, table.ID, date, slot, nil)
		if err != nil {
			return nil, err
		}
		if available {
			free = append(free, table)
		}
	}
	return free, nil
}

func findOrCreateCustomer(tx *gorm.DB, name, phone, email string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	var customer models.Customer
	err := tx.Where("phone_number = ?", phone).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		FullName:    strings.TrimSpace(name),
		PhoneNumber: phone,
		Email:       strings.TrimSpace(email),
		IsActive:    true,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
