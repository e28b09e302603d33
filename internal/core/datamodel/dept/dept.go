package dept

import "github.com/frahmantamala/rbac-admin/internal/core/datamodel"

const (
	TypeCompany = "COMPANY"
	TypeDept    = "DEPT"
	TypeGroup   = "GROUP"
)

type Dept struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	DeptName   string `gorm:"column:dept_name;size:100"`
	DeptCode   string `gorm:"column:dept_code;size:100"`
	FullName   string `gorm:"column:full_name;size:100"`
	ParentID   int64  `gorm:"column:parent_id;index"`
	OrderNum   int    `gorm:"column:order_num"`
	DeptType   string `gorm:"column:dept_type;size:20"`
	Leader     string `gorm:"column:leader;size:100"`
	Phone      string `gorm:"column:phone;size:100"`
	Email      string `gorm:"column:email;size:100"`
	Status     int    `gorm:"column:status"`
	PostalCode string `gorm:"column:postal_code;size:100"`
	Address    string `gorm:"column:address;size:100"`
	datamodel.Base
}

func (Dept) TableName() string {
	return "dept"
}
