package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
)

// Loyalty exchange rates, VND.
const (
	EarnRateVNDPerPoint = 10000
	RedeemValuePerPoint = 1000
)

var (
	ErrCardNotFound    = errors.New("khách hàng chưa có thẻ thành viên")
	ErrCardInactive    = errors.New("thẻ thành viên không hoạt động")
	ErrAlreadyEnrolled = errors.New("khách hàng đã có thẻ thành viên")
	ErrAlreadyEarned   = errors.New("đơn hàng này đã được tích điểm")
	ErrAlreadyRedeemed = errors.New("đơn hàng này đã dùng điểm")
)

// MembershipService manages loyalty cards and the point ledger. Every point
// movement is written to PointHistory with the order id as reference, which
// makes earn and redeem idempotent per order.
type MembershipService struct {
	DB *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{DB: db}
}

// CardByCustomer loads a customer's card with its recent history.
func (s *MembershipService) CardByCustomer(customerID uint) (*models.MembershipCard, error) {
	var card models.MembershipCard
	err := s.DB.Preload("Histories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_date DESC").Limit(50)
	}).Where("customer_id = ?", customerID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Enroll issues a new card for the customer. Card numbers look like
// "KD26042719": KD + two-digit year + six random digits.
func (s *MembershipService) Enroll(customerID uint) (*models.MembershipCard, error) {
	var existing int64
	if err := s.DB.Model(&models.MembershipCard{}).Where("customer_id = ?", customerID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyEnrolled
	}

	var customer models.Customer
	if err := s.DB.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("không tìm thấy khách hàng")
		}
		return nil, err
	}

	card := models.MembershipCard{
		CustomerID:  customerID,
		Points:      0,
		Status:      models.CardStatusActive,
		CreatedDate: time.Now(),
	}

	// Retry on the rare card number collision; the column is unique.
	for attempt := 0; attempt < 5; attempt++ {
		number, err := generateCardNumber()
		if err != nil {
			return nil, err
		}
		card.CardNumber = number
		if err := s.DB.Create(&card).Error; err == nil {
			return &card, nil
		}
	}
	return nil, errors.New("không thể tạo số thẻ thành viên")
}

func generateCardNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("KD%s%06d", time.Now().Format("06"), n.Int64()), nil
}

// AwardPoints credits floor(baseAmount / 10,000đ) points for a paid order.
// Runs inside the caller's transaction. A second call for the same order is
// a no-op returning the points already granted.
func (s *MembershipService) AwardPoints(tx *gorm.DB, customerID, orderID uint, baseAmount int) (int, error) {
	var card models.MembershipCard
	err := tx.Where("customer_id = ?", customerID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrCardNotFound
	}
	if err != nil {
		return 0, err
	}
	if card.Status != models.CardStatusActive {
		return 0, ErrCardInactive
	}

	var prior models.PointHistory
	err = tx.Where("card_id = ? AND change_type = ? AND reference_id = ?",
		card.ID, models.PointChangeEarn, orderID).First(&prior).Error
	if err == nil {
		return prior.Points, ErrAlreadyEarned
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	points := baseAmount / EarnRateVNDPerPoint
	if points <= 0 {
		return 0, nil
	}

	if err := tx.Model(&card).Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
		return 0, err
	}
	history := models.PointHistory{
		CardID:      card.ID,
		ChangeType:  models.PointChangeEarn,
		Points:      points,
		ReferenceID: &orderID,
		CreatedDate: time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return 0, err
	}
	return points, nil
}

// RedeemPoints debits up to requestedPoints (clamped to the card balance)
// against an order and returns the points spent plus their VND value. Runs
// inside the caller's transaction. A repeat call for the same order returns
// ErrAlreadyRedeemed with the original figures.
func (s *MembershipService) RedeemPoints(tx *gorm.DB, customerID, orderID uint, requestedPoints int) (int, int, error) {
	var card models.MembershipCard
	err := tx.Where("customer_id = ?", customerID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, ErrCardNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	if card.Status != models.CardStatusActive {
		return 0, 0, ErrCardInactive
	}

	var prior models.PointHistory
	err = tx.Where("card_id = ? AND change_type = ? AND reference_id = ?",
		card.ID, models.PointChangeUse, orderID).First(&prior).Error
	if err == nil {
		return prior.Points, prior.Points * RedeemValuePerPoint, ErrAlreadyRedeemed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, err
	}

	points := requestedPoints
	if points < 0 {
		points = 0
	}
	if points > card.Points {
		points = card.Points
	}
	if points == 0 {
		return 0, 0, nil
	}

	if err := tx.Model(&card).Update("points", gorm.Expr("points - ?", points)).Error; err != nil {
		return 0, 0, err
	}
	history := models.PointHistory{
		CardID:      card.ID,
		ChangeType:  models.PointChangeUse,
		Points:      points,
		ReferenceID: &orderID,
		CreatedDate: time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return 0, 0, err
	}
	return points, points * RedeemValuePerPoint, nil
}
