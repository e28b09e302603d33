package events

const (
	MenuChanged      = "menu.changed"
	RoleMenusChanged = "role.menus.changed"
	UserRolesChanged = "user.roles.changed"
	SessionRevoked   = "user.session.revoked"
)

type MenuChangedData struct {
	MenuID int64  `json:"menuId"`
	Action string `json:"action"`
}

// RoleMenusChangedData names the roles whose menu grants changed.
type RoleMenusChangedData struct {
	RoleIDs []int64 `json:"roleIds"`
}

// UserRef identifies a user the way cache keys do.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UsersData carries the users affected by a role reassignment or a forced
// logout.
type UsersData struct {
	Users  []UserRef `json:"users"`
	Reason string    `json:"reason"`
}

func NewMenuChanged(menuID int64, action string) BaseEvent {
	return NewEvent(MenuChanged, MenuChangedData{MenuID: menuID, Action: action})
}

func NewRoleMenusChanged(roleIDs ...int64) BaseEvent {
	return NewEvent(RoleMenusChanged, RoleMenusChangedData{RoleIDs: roleIDs})
}

func NewUserRolesChanged(users ...UserRef) BaseEvent {
	return NewEvent(UserRolesChanged, UsersData{Users: users, Reason: "roles"})
}

// NewSessionRevoked asks subscribers to drop every cached entry of the users.
func NewSessionRevoked(reason string, users ...UserRef) BaseEvent {
	return NewEvent(SessionRevoked, UsersData{Users: users, Reason: reason})
}
