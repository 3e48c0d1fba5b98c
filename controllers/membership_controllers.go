package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/services"
	"github.com/kdteam/kd-restaurant/utils"
)

type MembershipController struct {
	DB      *gorm.DB
	Service *services.MembershipService
}

func NewMembershipController(db *gorm.DB, service *services.MembershipService) *MembershipController {
	return &MembershipController{DB: db, Service: service}
}

// GetCard returns a customer's loyalty card with recent point history.
func (mc *MembershipController) GetCard(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("customer_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("mã khách hàng không hợp lệ"))
		return
	}

	card, err := mc.Service.CardByCustomer(uint(customerID))
	if errors.Is(err, services.ErrCardNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Thẻ thành viên", card)
}

// Enroll issues a loyalty card for a customer.
func (mc *MembershipController) Enroll(c *gin.Context) {
	var req struct {
		CustomerID uint `json:"customer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	card, err := mc.Service.Enroll(req.CustomerID)
	if errors.Is(err, services.ErrAlreadyEnrolled) {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Membership card %s issued for customer %d", card.CardNumber, card.CustomerID)
	utils.RespondJSON(c, http.StatusCreated, "Đã phát hành thẻ thành viên", card)
}
