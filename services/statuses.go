package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kdteam/kd-restaurant/models"
)

// StatusSet holds the resolved table status ids. Labels are matched once at
// startup; request handlers only ever compare ids.
type StatusSet struct {
	TableAvailable uint
	TableReserved  uint
	TableServing   uint
}

// ResolveTableStatuses loads the active table statuses and maps the localized
// labels to their ids. The server refuses to start when a label is missing.
func ResolveTableStatuses(db *gorm.DB) (StatusSet, error) {
	var rows []models.TableStatus
	if err := db.Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return StatusSet{}, err
	}

	var set StatusSet
	for _, row := range rows {
		name := strings.ToLower(row.StatusName)
		switch {
		case strings.Contains(name, "trống"):
			set.TableAvailable = row.ID
		case strings.Contains(name, "phục vụ"):
			set.TableServing = row.ID
		case strings.Contains(name, "đã đặt"):
			set.TableReserved = row.ID
		}
	}

	if set.TableAvailable == 0 || set.TableReserved == 0 || set.TableServing == 0 {
		return StatusSet{}, fmt.Errorf("thiếu trạng thái bàn trong dữ liệu khởi tạo: %+v", set)
	}
	return set, nil
}
