package menu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/metrics"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/session"
)

// RoleUsers finds the users holding any of the given roles.
type RoleUsers interface {
	UsersWithRoles(ctx context.Context, roleIDs []int64) ([]role.UserIdentity, error)
}

// CacheInvalidator evicts cached menu trees when menus or role grants change.
// A request racing the eviction can still cache a stale tree; it lives until
// the next change or its TTL.
type CacheInvalidator struct {
	cache  session.Cache
	users  RoleUsers
	logger *slog.Logger
}

func NewCacheInvalidator(cache session.Cache, users RoleUsers, logger *slog.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, users: users, logger: logger}
}

func (i *CacheInvalidator) Register(bus *events.EventBus) {
	bus.Subscribe(events.MenuChanged, i.HandleMenuChanged)
	bus.Subscribe(events.RoleMenusChanged, i.HandleRoleMenusChanged)
	bus.Subscribe(events.UserRolesChanged, i.HandleUsersChanged)
	bus.Subscribe(events.SessionRevoked, i.HandleUsersChanged)
}

// HandleMenuChanged drops every cached tree; any user may see the menu.
func (i *CacheInvalidator) HandleMenuChanged(ctx context.Context, e events.Event) error {
	n, err := i.cache.DeletePattern(ctx, session.UserMenuPattern)
	if err != nil {
		return fmt.Errorf("evict menu trees: %w", err)
	}
	metrics.RecordMenuInvalidation("menu_change", n)
	i.logger.Info("menu trees evicted", "reason", e.EventType(), "count", n)
	return nil
}

func (i *CacheInvalidator) HandleRoleMenusChanged(ctx context.Context, e events.Event) error {
	data, ok := e.Payload().(events.RoleMenusChangedData)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload(), e.EventType())
	}

	users, err := i.users.UsersWithRoles(ctx, data.RoleIDs)
	if err != nil {
		return fmt.Errorf("find role users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	keys := make([]string, 0, len(users))
	for _, u := range users {
		keys = append(keys, session.UserMenuKey(u.Username, u.ID))
	}
	if err := i.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("evict menu trees: %w", err)
	}
	metrics.RecordMenuInvalidation("role_change", len(keys))
	i.logger.Info("menu trees evicted", "reason", e.EventType(), "role_ids", data.RoleIDs, "count", len(keys))
	return nil
}

// HandleUsersChanged evicts the menu trees of the named users. A revoked
// session also loses its login payload, which logs the user out.
func (i *CacheInvalidator) HandleUsersChanged(ctx context.Context, e events.Event) error {
	data, ok := e.Payload().(events.UsersData)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Payload(), e.EventType())
	}
	if len(data.Users) == 0 {
		return nil
	}

	revoke := e.EventType() == events.SessionRevoked
	keys := make([]string, 0, 2*len(data.Users))
	for _, u := range data.Users {
		keys = append(keys, session.UserMenuKey(u.Username, u.ID))
		if revoke {
			keys = append(keys, session.UserInfoKey(u.Username, u.ID))
		}
	}
	if err := i.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("evict user entries: %w", err)
	}
	metrics.RecordMenuInvalidation("user_change", len(data.Users))
	i.logger.Info("user cache entries evicted", "reason", data.Reason, "count", len(data.Users), "revoked", revoke)
	return nil
}
