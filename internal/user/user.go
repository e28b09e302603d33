package user

import (
	"context"
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
)

// Query filters the back-office user listing.
type Query struct {
	DeptID      *int64
	Username    string
	Nickname    string
	Email       string
	PhoneNumber string
	IsFrozen    string
	StartTime   *time.Time
	EndTime     *time.Time
	Offset      int
	Limit       int
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*userDatamodel.User, error)
	List(ctx context.Context, q Query) ([]*userDatamodel.User, int64, error)
	ListByRole(ctx context.Context, roleID int64, offset, limit int) ([]*userDatamodel.User, int64, error)
	// Save writes scalar columns and, for non-nil id lists, replaces the role
	// and post links in the same transaction.
	Save(ctx context.Context, u *userDatamodel.User, roleIDs, postIDs []int64) error
	SoftDelete(ctx context.Context, ids []int64, actor string) error
	UpdateColumns(ctx context.Context, id int64, cols map[string]interface{}) error
	RemoveRole(ctx context.Context, userID, roleID int64) error
}

// User is the password-free admin view.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Nickname    string    `json:"nickname"`
	Email       string    `json:"email"`
	HeadPic     string    `json:"headPic"`
	PhoneNumber string    `json:"phoneNum"`
	IsFrozen    string    `json:"isFrozen"`
	IsAdmin     string    `json:"isAdmin"`
	Name        string    `json:"name"`
	Sex         int       `json:"sex"`
	JobNumber   string    `json:"jobNumber"`
	DeptID      *int64    `json:"deptId"`
	Remark      string    `json:"remark"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
}

type Detail struct {
	User
	RoleIDs []int64 `json:"roleIds"`
	PostIDs []int64 `json:"postIds"`
}

func FromDataModel(u *userDatamodel.User) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Email:       u.Email,
		HeadPic:     u.HeadPic,
		PhoneNumber: u.PhoneNumber,
		IsFrozen:    u.IsFrozen,
		IsAdmin:     u.IsAdmin,
		Name:        u.Name,
		Sex:         u.Sex,
		JobNumber:   u.JobNumber,
		DeptID:      u.DeptID,
		Remark:      u.Remark,
		CreateTime:  u.CreateTime,
		UpdateTime:  u.UpdateTime,
	}
}

func newDetail(u *userDatamodel.User) *Detail {
	d := &Detail{User: FromDataModel(u), RoleIDs: []int64{}, PostIDs: []int64{}}
	for _, r := range u.Roles {
		if r.DelFlag == datamodel.DelFlagNormal {
			d.RoleIDs = append(d.RoleIDs, r.ID)
		}
	}
	for _, p := range u.Posts {
		if p.DelFlag == datamodel.DelFlagNormal {
			d.PostIDs = append(d.PostIDs, p.ID)
		}
	}
	return d
}

func toViews(rows []*userDatamodel.User) []User {
	out := make([]User, 0, len(rows))
	for _, u := range rows {
		out = append(out, FromDataModel(u))
	}
	return out
}
