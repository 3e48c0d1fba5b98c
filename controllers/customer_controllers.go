package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers lists customers, optionally matching a phone prefix.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	query := cc.DB.Preload("MembershipCard").Where("is_active = ?", true)
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone_number LIKE ?", phone+"%")
	}

	var customers []models.Customer
	if err := query.Order("id").Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Danh sách khách hàng", customers)
}

// GetCustomer returns one customer with their card.
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	var customer models.Customer
	err := cc.DB.Preload("MembershipCard.Histories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_date DESC").Limit(20)
	}).First(&customer, c.Param("customer_id")).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Thông tin khách hàng", customer)
}

// UpdateCustomer edits contact details.
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := cc.DB.First(&customer, c.Param("customer_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Address  *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.FullName != nil {
		customer.FullName = *req.FullName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}

	if err := cc.DB.Save(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Đã cập nhật khách hàng", customer)
}
