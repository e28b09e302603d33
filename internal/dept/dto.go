package dept

type SaveDeptDTO struct {
	DeptName   string `json:"deptName" validate:"required,max=100"`
	DeptCode   string `json:"deptCode" validate:"required,max=100"`
	FullName   string `json:"fullName" validate:"max=100"`
	ParentID   int64  `json:"pid" validate:"required"`
	OrderNum   int    `json:"orderNum" validate:"min=0"`
	DeptType   string `json:"deptType" validate:"required,oneof=COMPANY DEPT GROUP"`
	Leader     string `json:"leader" validate:"max=100"`
	Phone      string `json:"phone" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=100"`
	Status     int    `json:"status" validate:"oneof=0 1"`
	PostalCode string `json:"postalCode" validate:"max=100"`
	Address    string `json:"address" validate:"max=100"`
	Remark     string `json:"remark" validate:"max=255"`
}

type ChangeStatusDTO struct {
	ID     int64 `json:"id" validate:"required,min=1"`
	Status int   `json:"status" validate:"oneof=0 1"`
}
