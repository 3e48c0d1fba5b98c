package services_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/config"
	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/services"
	"github.com/kdteam/kd-restaurant/utils"
)

func setupBookingService(t *testing.T) (*gorm.DB, *services.BookingService) {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	require.NoError(t, config.Seed(db))

	statuses, err := services.ResolveTableStatuses(db)
	require.NoError(t, err)

	membership := services.NewMembershipService(db)
	svc := services.NewBookingService(db, statuses, membership, services.NewBookingNotifier())
	return db, svc
}

func seedTable(t *testing.T, db *gorm.DB, svc *services.BookingService, name string) *models.Table {
	t.Helper()
	var area models.Area
	require.NoError(t, db.First(&area).Error)

	statusID := svc.Statuses.TableAvailable
	table := models.Table{
		TableName: name,
		AreaID:    &area.ID,
		StatusID:  &statusID,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func seedMenuItem(t *testing.T, db *gorm.DB, title string, price int, priceSale *int) *models.MenuItem {
	t.Helper()
	category := models.MenuCategory{Name: "Món chính " + title, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	item := models.MenuItem{
		CategoryID: category.ID,
		Title:      title,
		Price:      price,
		PriceSale:  priceSale,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func createBooking(t *testing.T, svc *services.BookingService, phone, slot string, date time.Time) *models.Booking {
	t.Helper()
	booking, err := svc.CreateBooking(services.BookingCreateInput{
		CustomerName: "Nguyễn Văn A",
		PhoneNumber:  phone,
		BookingDate:  date,
		TimeSlot:     slot,
		NumberGuests: 4,
	})
	require.NoError(t, err)
	return booking
}

func tableStatus(t *testing.T, db *gorm.DB, tableID uint) uint {
	t.Helper()
	var table models.Table
	require.NoError(t, db.First(&table, tableID).Error)
	require.NotNil(t, table.StatusID)
	return *table.StatusID
}

func TestTableAvailabilitySlotTrimming(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "B01")
	date := time.Now().AddDate(0, 0, 1)

	booking := createBooking(t, svc, "0901111111", "Tối 19:00 - 21:00", date)
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)

	// Same slot with stray whitespace still conflicts.
	free, err := svc.IsTableAvailable(db, table.ID, date, "  Tối 19:00 - 21:00  ", nil)
	require.NoError(t, err)
	assert.False(t, free)

	// A different slot on the same day is free.
	free, err = svc.IsTableAvailable(db, table.ID, date, "Trưa 11:00 - 13:00", nil)
	require.NoError(t, err)
	assert.True(t, free)

	// The same slot on another day is free.
	free, err = svc.IsTableAvailable(db, table.ID, date.AddDate(0, 0, 1), "Tối 19:00 - 21:00", nil)
	require.NoError(t, err)
	assert.True(t, free)

	// The booking holding the table does not conflict with itself.
	free, err = svc.IsTableAvailable(db, table.ID, date, "Tối 19:00 - 21:00", &booking.ID)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestAssignTableReservesAndReleases(t *testing.T) {
	db, svc := setupBookingService(t)
	table1 := seedTable(t, db, svc, "A01")
	table2 := seedTable(t, db, svc, "A02")
	date := time.Now().AddDate(0, 0, 1)

	booking := createBooking(t, svc, "0902222222", "Tối 19:00 - 21:00", date)

	updated, err := svc.AssignTable(booking.ID, table1.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TableID)
	assert.Equal(t, table1.ID, *updated.TableID)
	assert.Equal(t, svc.Statuses.TableReserved, tableStatus(t, db, table1.ID))

	// The branch follows the table's area.
	require.NotNil(t, updated.BranchID)

	// Moving to another table releases the first one.
	updated, err = svc.AssignTable(booking.ID, table2.ID)
	require.NoError(t, err)
	assert.Equal(t, table2.ID, *updated.TableID)
	assert.Equal(t, svc.Statuses.TableAvailable, tableStatus(t, db, table1.ID))
	assert.Equal(t, svc.Statuses.TableReserved, tableStatus(t, db, table2.ID))
}

func TestAssignTableConflict(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A03")
	date := time.Now().AddDate(0, 0, 1)

	first := createBooking(t, svc, "0903333333", "Tối 19:00 - 21:00", date)
	second := createBooking(t, svc, "0904444444", "Tối 19:00 - 21:00", date)

	_, err := svc.AssignTable(first.ID, table.ID)
	require.NoError(t, err)

	_, err = svc.AssignTable(second.ID, table.ID)
	assert.ErrorIs(t, err, services.ErrTableUnavailable)
}

func TestCheckInIdempotent(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A04")
	date := time.Now()

	booking := createBooking(t, svc, "0905555555", "Tối 17:00 - 19:00", date)
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)

	order1, err := svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, order1.TimeIn)

	order2, err := svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, order1.ID, order2.ID)
	assert.WithinDuration(t, *order1.TimeIn, *order2.TimeIn, time.Second)

	assert.Equal(t, svc.Statuses.TableServing, tableStatus(t, db, table.ID))

	var fresh models.Booking
	require.NoError(t, db.First(&fresh, booking.ID).Error)
	require.NotNil(t, fresh.StatusID)
	assert.Equal(t, models.BookingStatusServing, *fresh.StatusID)
	assert.True(t, fresh.IsActive)
}

func TestCheckInWithoutTable(t *testing.T) {
	_, svc := setupBookingService(t)
	booking := createBooking(t, svc, "0906666666", "Tối 17:00 - 19:00", time.Now())

	_, err := svc.CheckIn(booking.ID, nil)
	assert.ErrorIs(t, err, services.ErrTableNotAssigned)
}

func TestOrderItemsPriceSnapshotAndTotals(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A05")
	sale := 45000
	pho := seedMenuItem(t, db, "Phở bò", 50000, &sale)
	com := seedMenuItem(t, db, "Cơm gà", 40000, nil)

	booking := createBooking(t, svc, "0907777777", "Trưa 11:00 - 13:00", time.Now())
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	order, err := svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)

	// Sale price wins over list price.
	detail, err := svc.AddOrderItem(booking.ID, pho.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 45000, detail.PriceSale)
	assert.Equal(t, 90000, detail.Amount)

	// No sale price falls back to the list price.
	detail2, err := svc.AddOrderItem(booking.ID, com.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 40000, detail2.PriceSale)

	// Ordering the same dish again raises the quantity.
	detail, err = svc.AddOrderItem(booking.ID, pho.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Quantity)
	assert.Equal(t, 135000, detail.Amount)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, 175000, fresh.TotalAmount)

	// Setting the quantity rewrites the line amount.
	updated, err := svc.UpdateOrderItem(detail.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 90000, updated.Amount)

	// Quantity zero removes the line.
	removed, err := svc.UpdateOrderItem(detail2.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, 90000, fresh.TotalAmount)

	var count int64
	db.Model(&models.OrderDetail{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCompletePaymentNoteAndTransitions(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A06")
	item := seedMenuItem(t, db, "Lẩu thái", 65000, nil)

	booking := createBooking(t, svc, "0908888888", "Tối 19:00 - 21:00", time.Now())
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(booking.ID, item.ID, 2)
	require.NoError(t, err)

	order, err := svc.CompletePayment(services.PaymentInput{
		BookingID:   booking.ID,
		Method:      "cash",
		AmountGiven: 150000,
	})
	require.NoError(t, err)

	assert.Equal(t, 130000, order.TotalAmount)
	assert.Contains(t, order.Notes, "Khách trả 150,000 ₫ · Thối lại 20,000 ₫")
	require.NotNil(t, order.PaymentTime)
	require.NotNil(t, order.TimeOut)
	assert.Equal(t, "cash", order.PaymentMethod)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	var fresh models.Booking
	require.NoError(t, db.First(&fresh, booking.ID).Error)
	assert.False(t, fresh.IsActive)
	require.NotNil(t, fresh.StatusID)
	assert.Equal(t, models.BookingStatusCompleted, *fresh.StatusID)

	assert.Equal(t, svc.Statuses.TableAvailable, tableStatus(t, db, table.ID))

	// Paying again finds no open order.
	_, err = svc.CompletePayment(services.PaymentInput{
		BookingID:   booking.ID,
		Method:      "cash",
		AmountGiven: 150000,
	})
	assert.ErrorIs(t, err, services.ErrNoOpenOrder)
}

func TestCompletePaymentInsufficientTender(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A07")
	item := seedMenuItem(t, db, "Bò lúc lắc", 120000, nil)

	booking := createBooking(t, svc, "0909999999", "Tối 19:00 - 21:00", time.Now())
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	order, err := svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(booking.ID, item.ID, 1)
	require.NoError(t, err)

	_, err = svc.CompletePayment(services.PaymentInput{
		BookingID:   booking.ID,
		Method:      "cash",
		AmountGiven: 100000,
	})
	assert.ErrorIs(t, err, services.ErrInsufficientTender)

	// Nothing moved: the order stays open, the visit keeps serving.
	var fresh models.Order
	require.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Nil(t, fresh.PaymentTime)

	var freshBooking models.Booking
	require.NoError(t, db.First(&freshBooking, booking.ID).Error)
	assert.True(t, freshBooking.IsActive)
	assert.Equal(t, svc.Statuses.TableServing, tableStatus(t, db, table.ID))
}

func TestCompletePaymentWithLoyalty(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A08")
	item := seedMenuItem(t, db, "Gỏi cuốn", 65000, nil)

	booking := createBooking(t, svc, "0911111111", "Tối 19:00 - 21:00", time.Now())

	card, err := svc.Membership.Enroll(*booking.CustomerID)
	require.NoError(t, err)
	require.NoError(t, db.Model(card).Update("points", 20).Error)

	_, err = svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(booking.ID, item.ID, 2)
	require.NoError(t, err)

	// Total 130,000; redeem 5 points = 5,000đ off; payable 125,000.
	order, err := svc.CompletePayment(services.PaymentInput{
		BookingID:    booking.ID,
		Method:       "cash",
		AmountGiven:  130000,
		RedeemPoints: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 130000, order.TotalAmount)
	assert.Equal(t, 130000, order.TotalCost) // redemption lives in RedeemAmount
	assert.Equal(t, 5000, order.RedeemAmount)
	assert.Equal(t, 5, order.PointsRedeemed)
	assert.Equal(t, 12, order.PointsEarned) // floor(125,000 / 10,000)
	assert.Contains(t, order.Notes, "Khách trả 130,000 ₫ · Thối lại 5,000 ₫")

	var freshCard models.MembershipCard
	require.NoError(t, db.First(&freshCard, card.ID).Error)
	assert.Equal(t, 27, freshCard.Points) // 20 - 5 + 12
}

func TestCompletePaymentSkipsLockedCard(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A16")
	item := seedMenuItem(t, db, "Bún chả", 65000, nil)

	booking := createBooking(t, svc, "0919999999", "Tối 19:00 - 21:00", time.Now())

	card, err := svc.Membership.Enroll(*booking.CustomerID)
	require.NoError(t, err)
	require.NoError(t, db.Model(card).Updates(map[string]interface{}{
		"points": 20,
		"status": models.CardStatusLocked,
	}).Error)

	_, err = svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(booking.ID, item.ID, 1)
	require.NoError(t, err)

	// A locked card skips earn and redeem, the payment still settles.
	order, err := svc.CompletePayment(services.PaymentInput{
		BookingID:    booking.ID,
		Method:       "cash",
		AmountGiven:  65000,
		RedeemPoints: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 65000, order.TotalAmount)
	assert.Equal(t, 0, order.RedeemAmount)
	assert.Equal(t, 0, order.PointsRedeemed)
	assert.Equal(t, 0, order.PointsEarned)
	assert.Contains(t, order.Notes, "Khách trả 65,000 ₫ · Thối lại 0 ₫")

	var freshCard models.MembershipCard
	require.NoError(t, db.First(&freshCard, card.ID).Error)
	assert.Equal(t, 20, freshCard.Points)

	var ledger int64
	db.Model(&models.PointHistory{}).Where("card_id = ?", card.ID).Count(&ledger)
	assert.Equal(t, int64(0), ledger)
}

func TestCancelTwiceAppendsAndAudits(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A09")

	booking := createBooking(t, svc, "0912222222", "Tối 19:00 - 21:00", time.Now())
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	order, err := svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)

	first, err := svc.Cancel(services.CancelInput{BookingID: booking.ID, Reason: "Khách báo bận"})
	require.NoError(t, err)
	assert.Contains(t, first.Note, "Huỷ: Khách báo bận")
	assert.False(t, first.IsActive)
	require.NotNil(t, first.StatusID)
	assert.Equal(t, models.BookingStatusCancelled, *first.StatusID)
	assert.Equal(t, svc.Statuses.TableAvailable, tableStatus(t, db, table.ID))

	second, err := svc.Cancel(services.CancelInput{BookingID: booking.ID, Reason: "Nhầm thao tác"})
	require.NoError(t, err)
	assert.Contains(t, second.Note, "Huỷ: Khách báo bận")
	assert.Contains(t, second.Note, "Huỷ: Nhầm thao tác")

	var audits []models.OrderCancellation
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&audits).Error)
	assert.Len(t, audits, 2)
}

func TestCancelWithoutOrderStillAudits(t *testing.T) {
	db, svc := setupBookingService(t)

	// A reservation that never checked in has no order to point at.
	booking := createBooking(t, svc, "0921333333", "Tối 19:00 - 21:00", time.Now().AddDate(0, 0, 1))

	_, err := svc.Cancel(services.CancelInput{BookingID: booking.ID, Reason: "Khách huỷ qua điện thoại"})
	require.NoError(t, err)

	var audits []models.OrderCancellation
	require.NoError(t, db.Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Nil(t, audits[0].OrderID)
	assert.Equal(t, "Khách huỷ qua điện thoại", audits[0].Description)
	require.NotNil(t, audits[0].CancelledTime)
}

func TestPaymentRejectedAfterCancel(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A10")
	item := seedMenuItem(t, db, "Chè ba màu", 25000, nil)

	booking := createBooking(t, svc, "0913333333", "Tối 19:00 - 21:00", time.Now())
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(booking.ID, item.ID, 1)
	require.NoError(t, err)

	_, err = svc.Cancel(services.CancelInput{BookingID: booking.ID, Reason: "Khách không đến"})
	require.NoError(t, err)

	_, err = svc.CompletePayment(services.PaymentInput{
		BookingID:   booking.ID,
		Method:      "cash",
		AmountGiven: 100000,
	})
	assert.ErrorIs(t, err, services.ErrBookingCancelled)
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A11")
	item := seedMenuItem(t, db, "Trà đá", 5000, nil)

	booking := createBooking(t, svc, "0914444444", "Tối 19:00 - 21:00", time.Now())
	_, err := svc.AssignTable(booking.ID, table.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(booking.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(booking.ID, item.ID, 1)
	require.NoError(t, err)
	_, err = svc.CompletePayment(services.PaymentInput{
		BookingID:   booking.ID,
		Method:      "cash",
		AmountGiven: 5000,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(services.CancelInput{BookingID: booking.ID, Reason: "Muộn rồi"})
	assert.ErrorIs(t, err, services.ErrBookingCompleted)
}

func TestWalkInStartsServing(t *testing.T) {
	db, svc := setupBookingService(t)
	table := seedTable(t, db, svc, "A12")

	booking, err := svc.CreateWalkIn(services.WalkInInput{
		CustomerName: "Trần Thị B",
		PhoneNumber:  "0915555555",
		TableID:      table.ID,
		NumberGuests: 2,
	})
	require.NoError(t, err)

	require.NotNil(t, booking.StatusID)
	assert.Equal(t, models.BookingStatusServing, *booking.StatusID)
	assert.Regexp(t, `^\d{2}:\d{2}$`, booking.TimeSlot)
	assert.Equal(t, svc.Statuses.TableServing, tableStatus(t, db, table.ID))

	var order models.Order
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&order).Error)
	assert.NotNil(t, order.TimeIn)

	// The occupied table refuses a second walk-in.
	_, err = svc.CreateWalkIn(services.WalkInInput{
		PhoneNumber:  "0916666666",
		TableID:      table.ID,
		NumberGuests: 2,
	})
	assert.ErrorIs(t, err, services.ErrTableUnavailable)
}

func TestWalkInReusesCustomerByPhone(t *testing.T) {
	db, svc := setupBookingService(t)
	table1 := seedTable(t, db, svc, "A13")

	booking1 := createBooking(t, svc, "0917777777", "Tối 19:00 - 21:00", time.Now().AddDate(0, 0, 2))
	booking2, err := svc.CreateWalkIn(services.WalkInInput{
		CustomerName: "Ai đó khác",
		PhoneNumber:  "0917777777",
		TableID:      table1.ID,
		NumberGuests: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, *booking1.CustomerID, *booking2.CustomerID)

	var count int64
	db.Model(&models.Customer{}).Where("phone_number = ?", "0917777777").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAvailableTablesExcludesBooked(t *testing.T) {
	db, svc := setupBookingService(t)
	table1 := seedTable(t, db, svc, "A14")
	table2 := seedTable(t, db, svc, "A15")
	date := time.Now().AddDate(0, 0, 1)

	booking := createBooking(t, svc, "0918888888", "Tối 19:00 - 21:00", date)
	_, err := svc.AssignTable(booking.ID, table1.ID)
	require.NoError(t, err)

	tables, err := svc.AvailableTables(date, "Tối 19:00 - 21:00", nil)
	require.NoError(t, err)

	ids := make(map[uint]bool)
	for _, table := range tables {
		ids[table.ID] = true
	}
	assert.False(t, ids[table1.ID])
	assert.True(t, ids[table2.ID])
}
