package dict

import "github.com/frahmantamala/rbac-admin/internal/core/datamodel"

const (
	SystemFlagSystem   = "SYSTEM"
	SystemFlagBusiness = "BUSINESS"
)

type Dict struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	DictName   string `gorm:"column:dict_name;size:100"`
	DictCode   string `gorm:"column:dict_code;size:100;index"`
	DictDesc   string `gorm:"column:dict_desc;size:100"`
	SystemFlag string `gorm:"column:system_flag;size:20"`
	datamodel.Base
}

func (Dict) TableName() string {
	return "dict"
}

type DictData struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	DictValue  string `gorm:"column:dict_value;size:100"`
	DictLabel  string `gorm:"column:dict_label;size:100"`
	DictDesc   string `gorm:"column:dict_desc;size:255"`
	DictRemark string `gorm:"column:dict_remark;size:255"`
	DictSort   int    `gorm:"column:dict_sort"`
	DictTypeID int64  `gorm:"column:dict_type_id;index"`
	DictType   string `gorm:"column:dict_type;size:100;index"`
	datamodel.Base
}

func (DictData) TableName() string {
	return "dict_data"
}
