package role

import (
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
)

// SuperAdminCode is hidden from the general role listing.
const SuperAdminCode = "SUPER_ADMIN"

type Role struct {
	ID          int64                `gorm:"column:id;primaryKey"`
	Name        string               `gorm:"column:name;size:50"`
	RoleCode    string               `gorm:"column:role_code;size:50;index"`
	Description string               `gorm:"column:description;size:50"`
	IsEnable    int                  `gorm:"column:is_enable"`
	SortOrder   int                  `gorm:"column:sort_order"`
	Menus       []menuDatamodel.Menu `gorm:"many2many:role_menus;joinForeignKey:RoleID;joinReferences:MenuID"`
	datamodel.Base
}

func (Role) TableName() string {
	return "roles"
}

type RoleMenu struct {
	RoleID int64 `gorm:"column:role_id;primaryKey"`
	MenuID int64 `gorm:"column:menu_id;primaryKey"`
}

func (RoleMenu) TableName() string {
	return "role_menus"
}
