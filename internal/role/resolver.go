package role

import (
	"context"
	"fmt"

	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	"github.com/frahmantamala/rbac-admin/internal/core/user"
)

// RoleLoader is the read side the resolver needs.
type RoleLoader interface {
	FindWithMenus(ctx context.Context, ids []int64) ([]*roleDatamodel.Role, error)
	LiveRoleIDsOfUser(ctx context.Context, userID int64) ([]int64, error)
}

// Resolver turns role ids into the menus and permission strings they grant.
type Resolver struct {
	roles RoleLoader
}

func NewResolver(roles RoleLoader) *Resolver {
	return &Resolver{roles: roles}
}

// ResolveMenuIDs returns the distinct menu ids granted by the live roles in
// roleIDs, in first-seen order.
func (r *Resolver) ResolveMenuIDs(ctx context.Context, roleIDs []int64) ([]int64, error) {
	if len(roleIDs) == 0 {
		return []int64{}, nil
	}
	roles, err := r.roles.FindWithMenus(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	seen := make(map[int64]struct{})
	ids := []int64{}
	for _, ro := range roles {
		for _, m := range ro.Menus {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// ResolveUserMenuIDs resolves menus from the roles the user holds now rather
// than the roles captured in the access token.
func (r *Resolver) ResolveUserMenuIDs(ctx context.Context, userID int64) ([]int64, error) {
	roleIDs, err := r.roles.LiveRoleIDsOfUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user roles: %w", err)
	}
	return r.ResolveMenuIDs(ctx, roleIDs)
}

// ResolvePermissions returns the distinct non-empty permission strings
// granted by the live roles in roleIDs.
func (r *Resolver) ResolvePermissions(ctx context.Context, roleIDs []int64) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}
	roles, err := r.roles.FindWithMenus(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	seen := make(map[string]struct{})
	perms := []string{}
	for _, ro := range roles {
		for _, m := range ro.Menus {
			if m.Permission == "" {
				continue
			}
			if _, ok := seen[m.Permission]; ok {
				continue
			}
			seen[m.Permission] = struct{}{}
			perms = append(perms, m.Permission)
		}
	}
	return perms, nil
}

// PermissionsForUser grants the wildcard to the super admin regardless of
// roles and resolves normally for everyone else.
func (r *Resolver) PermissionsForUser(ctx context.Context, userID int64, roleIDs []int64) ([]string, error) {
	if userID == user.SuperAdminID {
		return []string{user.WildcardPermission}, nil
	}
	return r.ResolvePermissions(ctx, roleIDs)
}
