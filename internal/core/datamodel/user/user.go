package user

import (
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	postDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/post"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
)

const (
	FrozenNormal = "NORMAL"
	FrozenFrozen = "FROZEN"

	AdminNo  = "NO"
	AdminYes = "YES"
)

const (
	SexMan     = 1
	SexWoman   = 2
	SexUnknown = 3
)

type User struct {
	ID          int64                `gorm:"column:id;primaryKey"`
	Username    string               `gorm:"column:username;size:50;index"`
	Password    string               `gorm:"column:password;size:100"`
	Nickname    string               `gorm:"column:nickname;size:50"`
	Email       string               `gorm:"column:email;size:50"`
	HeadPic     string               `gorm:"column:head_pic;size:255"`
	PhoneNumber string               `gorm:"column:phone_number;size:20"`
	IsFrozen    string               `gorm:"column:is_frozen;size:10"`
	IsAdmin     string               `gorm:"column:is_admin;size:10"`
	Name        string               `gorm:"column:name;size:50"`
	Sex         int                  `gorm:"column:sex"`
	JobNumber   string               `gorm:"column:job_number;size:50"`
	DeptID      *int64               `gorm:"column:dept_id"`
	Roles       []roleDatamodel.Role `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	Posts       []postDatamodel.Post `gorm:"many2many:user_posts;joinForeignKey:UserID;joinReferences:PostID"`
	datamodel.Base
}

func (User) TableName() string {
	return "users"
}

func (u *User) Frozen() bool {
	return u.IsFrozen == FrozenFrozen
}

type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type UserPost struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	PostID int64 `gorm:"column:post_id;primaryKey"`
}

func (UserPost) TableName() string {
	return "user_posts"
}
