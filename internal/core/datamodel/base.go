package datamodel

import (
	"time"

	"gorm.io/gorm"
)

const (
	DelFlagNormal  = "0"
	DelFlagDeleted = "1"
)

// Status values shared by roles, posts and departments.
const (
	StatusEnable  = 1
	StatusDisable = 0
)

// Base holds the audit columns every table carries.
type Base struct {
	DelFlag    string     `gorm:"column:del_flag;type:char(1);default:'0';index"`
	CreateTime time.Time  `gorm:"column:create_time;autoCreateTime"`
	CreateBy   string     `gorm:"column:create_by;size:50"`
	UpdateTime time.Time  `gorm:"column:update_time;autoUpdateTime"`
	UpdateBy   string     `gorm:"column:update_by;size:50"`
	DeleteTime *time.Time `gorm:"column:delete_time"`
	DeleteBy   string     `gorm:"column:delete_by;size:50"`
	Remark     string     `gorm:"column:remark;size:255"`
}

// Stamp sets creator and updater for a new row.
func (b *Base) Stamp(actor string) {
	b.DelFlag = DelFlagNormal
	b.CreateBy = actor
	b.UpdateBy = actor
}

// Live restricts a query to rows that are not soft-deleted.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("del_flag = ?", DelFlagNormal)
}

// SoftDelete returns the column set that marks a row deleted by actor.
func SoftDelete(actor string) map[string]interface{} {
	return map[string]interface{}{
		"del_flag":    DelFlagDeleted,
		"delete_time": time.Now(),
		"delete_by":   actor,
		"update_by":   actor,
	}
}
