package models

// TableStatus rows carry localized display labels ("Bàn trống", "Bàn đã đặt",
// "Bàn đang phục vụ"). Code never matches on the label at request time; the
// ids are resolved once at startup by services.ResolveTableStatuses.
type TableStatus struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	StatusName  string `gorm:"type:varchar(50);not null" json:"status_name"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

type TableType struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TypeName string `gorm:"type:varchar(50);not null" json:"type_name"`
	MaxSeats *int   `json:"max_seats,omitempty"`
}

type Table struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	TableName   string       `gorm:"type:varchar(50);not null" json:"table_name"`
	AreaID      *uint        `gorm:"index" json:"area_id,omitempty"`
	Area        *Area        `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	TypeID      *uint        `json:"type_id,omitempty"`
	Type        *TableType   `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	StatusID    *uint        `gorm:"index" json:"status_id,omitempty"`
	Status      *TableStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	Description string       `gorm:"type:varchar(255)" json:"description,omitempty"`
}
