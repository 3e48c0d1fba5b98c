package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/services"
	"github.com/kdteam/kd-restaurant/utils"
)

type BookingController struct {
	DB      *gorm.DB
	Service *services.BookingService
}

func NewBookingController(db *gorm.DB, service *services.BookingService) *BookingController {
	return &BookingController{DB: db, Service: service}
}

// serviceErrorStatus maps the lifecycle errors onto HTTP codes.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrMenuItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTableUnavailable),
		errors.Is(err, services.ErrBookingClosed),
		errors.Is(err, services.ErrBookingCompleted),
		errors.Is(err, services.ErrBookingCancelled),
		errors.Is(err, services.ErrOrderAlreadyPaid),
		errors.Is(err, services.ErrNoOpenOrder),
		errors.Is(err, services.ErrTableNotAssigned):
		return http.StatusConflict
	case errors.Is(err, services.ErrInsufficientTender),
		errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError answers with the mapped status and logs anything that
// was not the caller's fault.
func respondServiceError(c *gin.Context, err error, context string) {
	status := serviceErrorStatus(err)
	if status >= http.StatusInternalServerError {
		utils.ErrorLogger.Errorf("%s: %v", context, err)
	}
	utils.RespondError(c, status, err)
}

func currentUserID(c *gin.Context) *uint {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

// CreateBooking accepts a reservation request. Serves both the public form
// and the staff desk; no table is held until staff assign one.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req struct {
		CustomerName string `json:"customer_name" binding:"required"`
		PhoneNumber  string `json:"phone_number" binding:"required"`
		Email        string `json:"email"`
		BranchID     *uint  `json:"branch_id"`
		BookingDate  string `json:"booking_date" binding:"required"` // YYYY-MM-DD
		TimeSlot     string `json:"time_slot" binding:"required"`
		NumberGuests int    `json:"number_guests" binding:"required,min=1"`
		PrePayment   int    `json:"pre_payment"`
		Note         string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bookingDate, err := time.ParseInLocation("2006-01-02", req.BookingDate, time.Local)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ngày đặt bàn không hợp lệ, định dạng YYYY-MM-DD"))
		return
	}

	booking, err := bc.Service.CreateBooking(services.BookingCreateInput{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		BranchID:     req.BranchID,
		BookingDate:  bookingDate,
		TimeSlot:     req.TimeSlot,
		NumberGuests: req.NumberGuests,
		PrePayment:   req.PrePayment,
		Note:         req.Note,
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.InfoLogger.Printf("New booking #%d for %s (%s)", booking.ID, req.PhoneNumber, req.TimeSlot)
	utils.RespondJSON(c, http.StatusCreated, "Đặt bàn thành công", booking)
}

// CreateWalkIn seats a customer immediately at a free table.
func (bc *BookingController) CreateWalkIn(c *gin.Context) {
	var req struct {
		CustomerName string `json:"customer_name"`
		PhoneNumber  string `json:"phone_number" binding:"required"`
		TableID      uint   `json:"table_id" binding:"required"`
		NumberGuests int    `json:"number_guests" binding:"required,min=1"`
		Note         string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.CreateWalkIn(services.WalkInInput{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		TableID:      req.TableID,
		NumberGuests: req.NumberGuests,
		Note:         req.Note,
		UserID:       currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("walk-in at table %d failed", req.TableID))
		return
	}

	utils.InfoLogger.Printf("Walk-in booking #%d at table %d", booking.ID, req.TableID)
	utils.RespondJSON(c, http.StatusCreated, "Đã nhận khách", booking)
}

// ListBookings filters by date, branch and status. Without an explicit
// status filter, bookings already at the table are left to the serving view.
func (bc *BookingController) ListBookings(c *gin.Context) {
	query := bc.DB.Preload("Customer").Preload("Table.Area").Preload("Status").Preload("Branch")

	if date := c.Query("date"); date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("ngày không hợp lệ, định dạng YYYY-MM-DD"))
			return
		}
		query = query.Where("booking_date = ?", services.DateOnly(parsed))
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if statusID := c.Query("status_id"); statusID != "" {
		query = query.Where("status_id = ?", statusID)
	} else {
		query = query.Where("status_id <> ?", models.BookingStatusServing)
	}

	var bookings []models.Booking
	if err := query.Order("booking_date DESC, id DESC").Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Danh sách đặt bàn", bookings)
}

// GetBookingHistory lists closed or past bookings, with per-status counters
// for the history tabs. Optionally narrowed to one customer by phone.
func (bc *BookingController) GetBookingHistory(c *gin.Context) {
	base := bc.DB.Model(&models.Booking{}).
		Where("is_active = ? OR booking_date < ?", false, services.DateOnly(time.Now()))

	if phone := c.Query("phone"); phone != "" {
		var customer models.Customer
		if err := bc.DB.Where("phone_number = ?", phone).First(&customer).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("không tìm thấy khách hàng"))
			return
		}
		base = base.Where("customer_id = ?", customer.ID)
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		base = base.Where("branch_id = ?", branchID)
	}

	counters := make(map[string]int64, 2)
	for label, statusID := range map[string]uint{
		"completed": models.BookingStatusCompleted,
		"cancelled": models.BookingStatusCancelled,
	} {
		var count int64
		if err := base.Session(&gorm.Session{}).Where("status_id = ?", statusID).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		counters[label] = count
	}

	query := base.Session(&gorm.Session{}).
		Preload("Customer").Preload("Table").Preload("Status").Preload("Branch")
	if statusID := c.Query("status_id"); statusID != "" {
		query = query.Where("status_id = ?", statusID)
	}

	var bookings []models.Booking
	if err := query.Order("booking_date DESC, id DESC").Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Lịch sử đặt bàn", gin.H{
		"counters": counters,
		"bookings": bookings,
	})
}

// GetBookingDetails returns one booking with its orders, line items and
// cancellation history.
func (bc *BookingController) GetBookingDetails(c *gin.Context) {
	var booking models.Booking
	err := bc.DB.
		Preload("Customer.MembershipCard").
		Preload("Table.Area.Branch").
		Preload("Table.Status").
		Preload("Status").
		Preload("Branch").
		Preload("Orders.Details.MenuItem").
		Preload("Orders.Cancellations.CancelledByUser").
		First(&booking, c.Param("booking_id")).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrBookingNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Chi tiết đặt bàn", gin.H{
		"booking":  booking,
		"timeline": bookingTimeline(&booking),
	})
}

type timelineEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
}

// bookingTimeline flattens the booking's stamps into the event list shown on
// the detail screen.
func bookingTimeline(booking *models.Booking) []timelineEvent {
	events := []timelineEvent{{Time: booking.CreatedAt, Event: "Tạo đặt bàn"}}
	for _, order := range booking.Orders {
		if order.TimeIn != nil {
			events = append(events, timelineEvent{Time: *order.TimeIn, Event: "Nhận bàn"})
		}
		if order.PaymentTime != nil {
			events = append(events, timelineEvent{Time: *order.PaymentTime, Event: "Thanh toán"})
		}
		for _, cancellation := range order.Cancellations {
			if cancellation.CancelledTime != nil {
				events = append(events, timelineEvent{Time: *cancellation.CancelledTime, Event: "Huỷ: " + cancellation.Description})
			}
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events
}

// AssignTable reserves a table for the booking.
func (bc *BookingController) AssignTable(c *gin.Context) {
	var req struct {
		BookingID uint `json:"booking_id" binding:"required"`
		TableID   uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.AssignTable(req.BookingID, req.TableID)
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("assign table %d to booking %d failed", req.TableID, req.BookingID))
		return
	}

	utils.InfoLogger.Printf("Booking #%d assigned to table %d", booking.ID, req.TableID)
	utils.RespondJSON(c, http.StatusOK, "Đã xếp bàn", booking)
}

// CheckIn marks the customer's arrival and opens the order.
func (bc *BookingController) CheckIn(c *gin.Context) {
	var req struct {
		BookingID uint `json:"booking_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := bc.Service.CheckIn(req.BookingID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("check-in for booking %d failed", req.BookingID))
		return
	}

	utils.InfoLogger.Printf("Booking #%d checked in, order #%d", req.BookingID, order.ID)
	utils.RespondJSON(c, http.StatusOK, "Đã nhận bàn", order)
}

// AddOrderItem adds a dish to the booking's open order.
func (bc *BookingController) AddOrderItem(c *gin.Context) {
	var req struct {
		BookingID  uint `json:"booking_id" binding:"required"`
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	detail, err := bc.Service.AddOrderItem(req.BookingID, req.MenuItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("add item %d to booking %d failed", req.MenuItemID, req.BookingID))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Đã thêm món", detail)
}

// UpdateOrderItem changes a line quantity; zero removes the line.
func (bc *BookingController) UpdateOrderItem(c *gin.Context) {
	var req struct {
		DetailID uint `json:"detail_id" binding:"required"`
		Quantity int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	detail, err := bc.Service.UpdateOrderItem(req.DetailID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("update line %d failed", req.DetailID))
		return
	}
	if detail == nil {
		utils.RespondJSON(c, http.StatusOK, "Đã xoá món", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Đã cập nhật món", detail)
}

// CompletePayment settles the open order and closes the visit.
func (bc *BookingController) CompletePayment(c *gin.Context) {
	var req struct {
		BookingID    uint   `json:"booking_id" binding:"required"`
		Method       string `json:"method" binding:"required"`
		AmountGiven  int    `json:"amount_given" binding:"required,min=0"`
		Notes        string `json:"notes"`
		RedeemPoints int    `json:"redeem_points"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := bc.Service.CompletePayment(services.PaymentInput{
		BookingID:    req.BookingID,
		Method:       req.Method,
		AmountGiven:  req.AmountGiven,
		Notes:        req.Notes,
		UserID:       currentUserID(c),
		RedeemPoints: req.RedeemPoints,
	})
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("payment for booking %d failed", req.BookingID))
		return
	}

	utils.InfoLogger.Printf("Booking #%d paid, order #%d total %s", req.BookingID, order.ID, utils.FormatVNDWithSign(order.TotalAmount))
	utils.RespondJSON(c, http.StatusOK, "Thanh toán thành công", order)
}

// CancelBooking closes the booking with a reason and audits it.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	var req struct {
		BookingID uint   `json:"booking_id" binding:"required"`
		Reason    string `json:"reason" binding:"required"`
		StatusID  *uint  `json:"status_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.Cancel(services.CancelInput{
		BookingID: req.BookingID,
		Reason:    req.Reason,
		UserID:    currentUserID(c),
		StatusID:  req.StatusID,
	})
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("cancel booking %d failed", req.BookingID))
		return
	}

	utils.InfoLogger.Printf("Booking #%d cancelled: %s", booking.ID, req.Reason)
	utils.RespondJSON(c, http.StatusOK, "Đã huỷ đặt bàn", booking)
}

// GetAvailableTables lists tables free for a date and slot.
func (bc *BookingController) GetAvailableTables(c *gin.Context) {
	dateParam := c.Query("date")
	slot := c.Query("time_slot")
	if dateParam == "" || slot == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("thiếu ngày hoặc khung giờ"))
		return
	}
	date, err := time.ParseInLocation("2006-01-02", dateParam, time.Local)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ngày không hợp lệ, định dạng YYYY-MM-DD"))
		return
	}

	var branchID *uint
	if v := c.Query("branch_id"); v != "" {
		var branch models.Branch
		if err := bc.DB.First(&branch, v).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("không tìm thấy chi nhánh"))
			return
		}
		branchID = &branch.ID
	}

	tables, err := bc.Service.AvailableTables(date, slot, branchID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if v := c.Query("min_seats"); v != "" {
		minSeats, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("số ghế không hợp lệ"))
			return
		}
		filtered := tables[:0]
		for _, table := range tables {
			if table.Type != nil && table.Type.MaxSeats != nil && *table.Type.MaxSeats >= minSeats {
				filtered = append(filtered, table)
			}
		}
		tables = filtered
	}

	utils.RespondJSON(c, http.StatusOK, "Bàn trống", tables)
}

// GetCurrentOrder returns the booking's unpaid order with its lines, opening
// one for a serving booking that has none yet.
func (bc *BookingController) GetCurrentOrder(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("booking_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("mã đặt bàn không hợp lệ"))
		return
	}

	order, err := bc.Service.CurrentOrder(uint(bookingID))
	if err != nil {
		respondServiceError(c, err, fmt.Sprintf("load order for booking %d failed", bookingID))
		return
	}

	total, err := bc.Service.OrderTotal(order)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Đơn hàng hiện tại", gin.H{
		"order": order,
		"total": total,
	})
}

// GetInvoice renders a paid order as an invoice payload.
func (bc *BookingController) GetInvoice(c *gin.Context) {
	bookingID := c.Param("booking_id")

	var order models.Order
	err := bc.DB.Preload("Details.MenuItem").Preload("Customer").Preload("User").
		Where("booking_id = ? AND payment_time IS NOT NULL", bookingID).
		Order("payment_time DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, errors.New("đặt bàn chưa có hoá đơn"))
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lines := make([]gin.H, 0, len(order.Details))
	for _, d := range order.Details {
		title := ""
		if d.MenuItem != nil {
			title = d.MenuItem.Title
		}
		lines = append(lines, gin.H{
			"title":      title,
			"quantity":   d.Quantity,
			"unit_price": utils.FormatVNDWithSign(d.PriceSale),
			"amount":     utils.FormatVNDWithSign(d.Amount),
		})
	}

	cashier := ""
	if order.User != nil {
		cashier = order.User.DisplayName()
	}

	utils.RespondJSON(c, http.StatusOK, "Hoá đơn", gin.H{
		"order_id":        order.ID,
		"payment_time":    order.PaymentTime,
		"payment_method":  order.PaymentMethod,
		"cashier":         cashier,
		"lines":           lines,
		"total_amount":    utils.FormatVNDWithSign(order.TotalAmount),
		"redeem_amount":   utils.FormatVNDWithSign(order.RedeemAmount),
		"amount_paid":     utils.FormatVNDWithSign(order.PayableAmount()),
		"points_earned":   order.PointsEarned,
		"points_redeemed": order.PointsRedeemed,
		"notes":           order.Notes,
	})
}

// GetTimeSlots returns the reservation time slot catalogue.
func (bc *BookingController) GetTimeSlots(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Khung giờ đặt bàn", services.BookingTimeSlots())
}
