package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable adds a table to an area.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableName   string `json:"table_name" binding:"required"`
		AreaID      *uint  `json:"area_id"`
		TypeID      *uint  `json:"type_id"`
		StatusID    *uint  `json:"status_id"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		TableName:   req.TableName,
		AreaID:      req.AreaID,
		TypeID:      req.TypeID,
		StatusID:    req.StatusID,
		Description: req.Description,
		IsActive:    true,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s", table.TableName)
	utils.RespondJSON(c, http.StatusCreated, "Đã tạo bàn", table)
}

// GetAllTables lists tables with their area, type and status.
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Preload("Area.Branch").Preload("Type").Preload("Status").
		Where("is_active = ?", true)
	if statusID := c.Query("status_id"); statusID != "" {
		query = query.Where("status_id = ?", statusID)
	}

	var tables []models.Table
	if err := query.Order("id").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Danh sách bàn", tables)
}

// GetTable returns one table.
func (tc *TableController) GetTable(c *gin.Context) {
	var table models.Table
	err := tc.DB.Preload("Area.Branch").Preload("Type").Preload("Status").
		First(&table, c.Param("table_id")).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Thông tin bàn", table)
}

// UpdateTable edits table fields, including manual status changes for
// maintenance.
func (tc *TableController) UpdateTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		TableName   *string `json:"table_name"`
		AreaID      *uint   `json:"area_id"`
		TypeID      *uint   `json:"type_id"`
		StatusID    *uint   `json:"status_id"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TableName != nil {
		table.TableName = *req.TableName
	}
	if req.AreaID != nil {
		table.AreaID = req.AreaID
	}
	if req.TypeID != nil {
		table.TypeID = req.TypeID
	}
	if req.StatusID != nil {
		table.StatusID = req.StatusID
	}
	if req.Description != nil {
		table.Description = *req.Description
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Đã cập nhật bàn", table)
}

// GetTableStatuses lists the status catalogue for dropdowns.
func (tc *TableController) GetTableStatuses(c *gin.Context) {
	var statuses []models.TableStatus
	if err := tc.DB.Where("is_active = ?", true).Find(&statuses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Trạng thái bàn", statuses)
}

// GetTableTypes lists seat-count types.
func (tc *TableController) GetTableTypes(c *gin.Context) {
	var types []models.TableType
	if err := tc.DB.Find(&types).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Loại bàn", types)
}
