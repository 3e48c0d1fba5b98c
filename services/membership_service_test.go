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

func setupMembership(t *testing.T) (*gorm.DB, *services.MembershipService, *models.Customer) {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	customer := models.Customer{
		FullName:    "Lê Văn C",
		PhoneNumber: "0921111111",
		IsActive:    true,
	}
	require.NoError(t, db.Create(&customer).Error)

	return db, services.NewMembershipService(db), &customer
}

func TestEnrollCardNumberFormat(t *testing.T) {
	_, svc, customer := setupMembership(t)

	card, err := svc.Enroll(customer.ID)
	require.NoError(t, err)

	prefix := "KD" + time.Now().Format("06")
	assert.True(t, strings.HasPrefix(card.CardNumber, prefix), "card number %s", card.CardNumber)
	assert.Len(t, card.CardNumber, 10)
	assert.Equal(t, models.CardStatusActive, card.Status)
	assert.Equal(t, 0, card.Points)

	_, err = svc.Enroll(customer.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyEnrolled)
}

func TestAwardPointsIdempotent(t *testing.T) {
	db, svc, customer := setupMembership(t)
	_, err := svc.Enroll(customer.ID)
	require.NoError(t, err)

	orderID := uint(41)
	points, err := svc.AwardPoints(db, customer.ID, orderID, 159999)
	require.NoError(t, err)
	assert.Equal(t, 15, points)

	// Replaying the same order changes nothing.
	points, err = svc.AwardPoints(db, customer.ID, orderID, 159999)
	assert.ErrorIs(t, err, services.ErrAlreadyEarned)
	assert.Equal(t, 15, points)

	card, err := svc.CardByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, card.Points)

	var entries int64
	db.Model(&models.PointHistory{}).
		Where("card_id = ? AND change_type = ?", card.ID, models.PointChangeEarn).
		Count(&entries)
	assert.Equal(t, int64(1), entries)
}

func TestAwardPointsBelowThreshold(t *testing.T) {
	db, svc, customer := setupMembership(t)
	_, err := svc.Enroll(customer.ID)
	require.NoError(t, err)

	points, err := svc.AwardPoints(db, customer.ID, 42, 9999)
	require.NoError(t, err)
	assert.Equal(t, 0, points)

	var entries int64
	db.Model(&models.PointHistory{}).Count(&entries)
	assert.Equal(t, int64(0), entries)
}

func TestAwardPointsWithoutCard(t *testing.T) {
	db, svc, customer := setupMembership(t)

	_, err := svc.AwardPoints(db, customer.ID, 43, 50000)
	assert.ErrorIs(t, err, services.ErrCardNotFound)
}

func TestRedeemPointsClamped(t *testing.T) {
	db, svc, customer := setupMembership(t)
	card, err := svc.Enroll(customer.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(card).Update("points", 10).Error)

	orderID := uint(44)
	points, amount, err := svc.RedeemPoints(db, customer.ID, orderID, 50)
	require.NoError(t, err)
	assert.Equal(t, 10, points)
	assert.Equal(t, 10000, amount)

	fresh, err := svc.CardByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Points)

	// Replaying the same order returns the original figures.
	points, amount, err = svc.RedeemPoints(db, customer.ID, orderID, 50)
	assert.ErrorIs(t, err, services.ErrAlreadyRedeemed)
	assert.Equal(t, 10, points)
	assert.Equal(t, 10000, amount)
}

func TestRedeemPointsNegativeRequest(t *testing.T) {
	db, svc, customer := setupMembership(t)
	card, err := svc.Enroll(customer.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(card).Update("points", 10).Error)

	points, amount, err := svc.RedeemPoints(db, customer.ID, 45, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, points)
	assert.Equal(t, 0, amount)
}

func TestRedeemPointsLockedCard(t *testing.T) {
	db, svc, customer := setupMembership(t)
	card, err := svc.Enroll(customer.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(card).Updates(map[string]interface{}{
		"points": 10,
		"status": models.CardStatusLocked,
	}).Error)

	_, _, err = svc.RedeemPoints(db, customer.ID, 46, 5)
	assert.ErrorIs(t, err, services.ErrCardInactive)
}
