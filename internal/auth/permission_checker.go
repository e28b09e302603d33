package auth

import coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"

// HasPermissions reports whether userPermissions satisfy every entry of
// required. The wildcard satisfies anything; an empty requirement always
// passes.
func HasPermissions(userPermissions, required []string) bool {
	if len(required) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(userPermissions))
	for _, p := range userPermissions {
		if p == coreuser.WildcardPermission {
			return true
		}
		held[p] = struct{}{}
	}
	for _, r := range required {
		if _, ok := held[r]; !ok {
			return false
		}
	}
	return true
}
