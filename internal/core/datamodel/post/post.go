package post

import "github.com/frahmantamala/rbac-admin/internal/core/datamodel"

type Post struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;size:100"`
	Code        string `gorm:"column:code;size:100;index"`
	Description string `gorm:"column:description;size:100"`
	SortOrder   int    `gorm:"column:sort_order"`
	Status      int    `gorm:"column:status"`
	datamodel.Base
}

func (Post) TableName() string {
	return "post"
}
