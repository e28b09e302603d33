package menu

import "github.com/frahmantamala/rbac-admin/internal/core/datamodel"

// Menu kinds.
const (
	TypeDirectory = 0
	TypePage      = 1
	TypeButton    = 2
)

type Menu struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;size:100"`
	EnName       string `gorm:"column:en_name;size:100"`
	Permission   string `gorm:"column:permission;size:100"`
	Path         string `gorm:"column:path;size:255"`
	ParentMenuID int64  `gorm:"column:parent_menu_id;index"`
	Icon         string `gorm:"column:icon;size:100"`
	Visible      string `gorm:"column:visible;type:char(1)"`
	SortOrder    int    `gorm:"column:sort_order"`
	KeepAlive    string `gorm:"column:keep_alive;type:char(1)"`
	Embedded     string `gorm:"column:embedded;type:char(1)"`
	MenuType     int    `gorm:"column:menu_type"`
	IsIframe     string `gorm:"column:is_iframe;type:char(1)"`
	IframeURL    string `gorm:"column:iframe_url;size:255"`
	Component    string `gorm:"column:component;size:255"`
	datamodel.Base
}

func (Menu) TableName() string {
	return "menu"
}
