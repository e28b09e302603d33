package role

import (
	"context"
	"time"

	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
)

// Query filters the role listing.
type Query struct {
	Name      string
	RoleCode  string
	IsEnable  *int
	StartTime *time.Time
	EndTime   *time.Time
	Offset    int
	Limit     int
}

// UserIdentity is the pair a cached menu key is derived from.
type UserIdentity struct {
	ID       int64
	Username string
}

type RepositoryAPI interface {
	FindWithMenus(ctx context.Context, ids []int64) ([]*roleDatamodel.Role, error)
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error)
	GetByCode(ctx context.Context, code string) (*roleDatamodel.Role, error)
	List(ctx context.Context, q Query) ([]*roleDatamodel.Role, int64, error)
	// Save writes role scalars and, when menuIDs is non-nil, replaces its menu
	// grants in the same transaction.
	Save(ctx context.Context, r *roleDatamodel.Role, menuIDs []int64) error
	SoftDelete(ctx context.Context, id int64, actor string) error
	MenuIDs(ctx context.Context, roleID int64) ([]int64, error)
	UpdateStatus(ctx context.Context, id int64, isEnable int, actor string) error
	AddUsers(ctx context.Context, roleID int64, userIDs []int64) error
	RemoveUsers(ctx context.Context, roleID int64, userIDs []int64) error
	UsersWithRoles(ctx context.Context, roleIDs []int64) ([]UserIdentity, error)
	// LiveRoleIDsOfUser lists the ids of the live roles currently linked to the user.
	LiveRoleIDsOfUser(ctx context.Context, userID int64) ([]int64, error)
}

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	RoleCode    string    `json:"roleCode"`
	Description string    `json:"description"`
	IsEnable    int       `json:"isEnable"`
	SortOrder   int       `json:"sortOrder"`
	Remark      string    `json:"remark"`
	CreateBy    string    `json:"createBy"`
	CreateTime  time.Time `json:"createTime"`
	UpdateBy    string    `json:"updateBy"`
	UpdateTime  time.Time `json:"updateTime"`
}

type Detail struct {
	Role
	Menus []int64 `json:"menus"`
}

func FromDataModel(r *roleDatamodel.Role) Role {
	return Role{
		ID:          r.ID,
		Name:        r.Name,
		RoleCode:    r.RoleCode,
		Description: r.Description,
		IsEnable:    r.IsEnable,
		SortOrder:   r.SortOrder,
		Remark:      r.Remark,
		CreateBy:    r.CreateBy,
		CreateTime:  r.CreateTime,
		UpdateBy:    r.UpdateBy,
		UpdateTime:  r.UpdateTime,
	}
}
