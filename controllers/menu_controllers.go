package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus lists active dishes, optionally by category. Public.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Preload("Category").Where("is_active = ?", true)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var items []models.MenuItem
	if err := query.Order("id").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Thực đơn", items)
}

// GetMenu returns one dish.
func (mc *MenuController) GetMenu(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Chi tiết món", item)
}

// CreateMenu adds a dish.
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req struct {
		CategoryID  uint   `json:"category_id" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Price       int    `json:"price" binding:"required,min=0"`
		PriceSale   *int   `json:"price_sale"`
		Image       string `json:"image"`
		Quantity    int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PriceSale:   req.PriceSale,
		Image:       req.Image,
		Quantity:    req.Quantity,
		IsActive:    true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New menu item: %s (%s)", item.Title, utils.FormatVNDWithSign(item.Price))
	utils.RespondJSON(c, http.StatusCreated, "Đã thêm món", item)
}

// UpdateMenu edits a dish.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		CategoryID  *uint   `json:"category_id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Price       *int    `json:"price"`
		PriceSale   *int    `json:"price_sale"`
		Image       *string `json:"image"`
		Quantity    *int    `json:"quantity"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.PriceSale != nil {
		item.PriceSale = req.PriceSale
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Đã cập nhật món", item)
}

// DeleteMenu hides a dish from the menu.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	var item models.MenuItem
	if err := mc.DB.First(&item, c.Param("menu_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := mc.DB.Model(&item).Update("is_active", false).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Đã ẩn món", nil)
}
