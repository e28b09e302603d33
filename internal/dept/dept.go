package dept

import (
	"context"
	"time"

	deptDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dept"
)

type Query struct {
	DeptName string
	DeptCode string
	Status   *int
	ParentID *int64
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*deptDatamodel.Dept, error)
	// List returns live departments ordered by order_num then id.
	List(ctx context.Context, q Query) ([]deptDatamodel.Dept, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	// Stats reports the highest id and order number ever used, deleted rows
	// included.
	Stats(ctx context.Context) (maxID int64, maxOrder int, err error)
	Create(ctx context.Context, d *deptDatamodel.Dept) error
	Update(ctx context.Context, d *deptDatamodel.Dept) error
	UpdateStatus(ctx context.Context, id int64, status int, actor string) error
	SoftDelete(ctx context.Context, id int64, actor string) error
}

type Dept struct {
	ID         int64     `json:"id"`
	DeptName   string    `json:"deptName"`
	DeptCode   string    `json:"deptCode"`
	FullName   string    `json:"fullName"`
	ParentID   int64     `json:"pid"`
	OrderNum   int       `json:"orderNum"`
	DeptType   string    `json:"deptType"`
	Leader     string    `json:"leader"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Status     int       `json:"status"`
	PostalCode string    `json:"postalCode"`
	Address    string    `json:"address"`
	Remark     string    `json:"remark"`
	CreateTime time.Time `json:"createTime"`
	Children   []*Dept   `json:"children,omitempty"`
}

// Constant is the suggested code and order number for a new department.
type Constant struct {
	DeptCode string `json:"deptCode"`
	OrderNum int    `json:"orderNum"`
}

func FromDataModel(d deptDatamodel.Dept) *Dept {
	return &Dept{
		ID:         d.ID,
		DeptName:   d.DeptName,
		DeptCode:   d.DeptCode,
		FullName:   d.FullName,
		ParentID:   d.ParentID,
		OrderNum:   d.OrderNum,
		DeptType:   d.DeptType,
		Leader:     d.Leader,
		Phone:      d.Phone,
		Email:      d.Email,
		Status:     d.Status,
		PostalCode: d.PostalCode,
		Address:    d.Address,
		Remark:     d.Remark,
		CreateTime: d.CreateTime,
	}
}
