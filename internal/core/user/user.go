package user

// SuperAdminID is the fixed identity that bypasses role resolution and holds
// the wildcard permission.
const SuperAdminID int64 = 1

// WildcardPermission grants every permission check.
const WildcardPermission = "*:*:*"

type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Roles       []RoleRef `json:"roles"`
	Permissions []string  `json:"permissions"`
}

func (p *Principal) RoleIDs() []int64 {
	ids := make([]int64, 0, len(p.Roles))
	for _, r := range p.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func (p *Principal) IsSuperAdmin() bool {
	return p.ID == SuperAdminID
}
