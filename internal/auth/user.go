package auth

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
)

type RepositoryAPI interface {
	// FindAdminByUsername loads a live back-office user with roles.
	FindAdminByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	FindByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, hash string, actor string) error
}

// PermissionResolver computes a user's permission strings.
type PermissionResolver interface {
	PermissionsForUser(ctx context.Context, userID int64, roleIDs []int64) ([]string, error)
}

// LoginRecorder appends one audit row per login or logout attempt.
type LoginRecorder interface {
	Record(ctx context.Context, username string, client coreuser.ClientInfo, success bool, msg string) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// UserInfo is the password-free projection of a user.
type UserInfo struct {
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	Nickname    string             `json:"nickname"`
	Email       string             `json:"email"`
	HeadPic     string             `json:"headPic"`
	PhoneNumber string             `json:"phoneNum"`
	IsFrozen    string             `json:"isFrozen"`
	Roles       []coreuser.RoleRef `json:"roles"`
	Permissions []string           `json:"permissions"`
	CreateTime  time.Time          `json:"createTime"`
}

func (u *UserInfo) Principal() *coreuser.Principal {
	return &coreuser.Principal{
		ID:          u.ID,
		Username:    u.Username,
		Roles:       u.Roles,
		Permissions: u.Permissions,
	}
}

// SessionPayload is what a successful login stores in the session cache.
type SessionPayload struct {
	UserInfo     UserInfo            `json:"userInfo"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	Client       coreuser.ClientInfo `json:"client"`
	LoginTime    time.Time           `json:"loginTime"`
}

func newUserInfo(u *userDatamodel.User, permissions []string) *UserInfo {
	roles := make([]coreuser.RoleRef, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, coreuser.RoleRef{ID: r.ID, Name: r.Name, Code: r.RoleCode})
	}
	return &UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Email:       u.Email,
		HeadPic:     u.HeadPic,
		PhoneNumber: u.PhoneNumber,
		IsFrozen:    u.IsFrozen,
		Roles:       roles,
		Permissions: permissions,
		CreateTime:  u.CreateTime,
	}
}

func roleIDs(u *userDatamodel.User) []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}
