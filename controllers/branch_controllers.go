package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(db *gorm.DB) *BranchController {
	return &BranchController{DB: db}
}

// GetAllBranches lists active branches. Public, feeds the reservation form.
func (bc *BranchController) GetAllBranches(c *gin.Context) {
	var branches []models.Branch
	if err := bc.DB.Where("is_active = ?", true).Find(&branches).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Danh sách chi nhánh", branches)
}

// GetAreas lists areas, optionally by branch.
func (bc *BranchController) GetAreas(c *gin.Context) {
	query := bc.DB.Preload("Branch").Where("is_active = ?", true)
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	var areas []models.Area
	if err := query.Find(&areas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Danh sách khu vực", areas)
}

// CreateBranch adds a branch.
func (bc *BranchController) CreateBranch(c *gin.Context) {
	var req struct {
		BranchName  string `json:"branch_name" binding:"required"`
		Address     string `json:"address"`
		PhoneNumber string `json:"phone_number"`
		Email       string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	branch := models.Branch{
		BranchName:  req.BranchName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		IsActive:    true,
	}
	if err := bc.DB.Create(&branch).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Đã tạo chi nhánh", branch)
}

// CreateArea adds an area to a branch.
func (bc *BranchController) CreateArea(c *gin.Context) {
	var req struct {
		AreaName string `json:"area_name" binding:"required"`
		BranchID uint   `json:"branch_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	area := models.Area{
		AreaName: req.AreaName,
		BranchID: &req.BranchID,
		IsActive: true,
	}
	if err := bc.DB.Create(&area).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Đã tạo khu vực", area)
}
