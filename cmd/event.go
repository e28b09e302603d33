package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	rolePostgres "github.com/frahmantamala/rbac-admin/internal/role/postgres"
	"github.com/frahmantamala/rbac-admin/internal/session"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish cache invalidation events by hand, e.g. after editing menus or grants directly in the database`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish an invalidation event",
	Long: `Publish one of menu.changed, role.menus.changed, user.roles.changed or
user.session.revoked. Subscribers run synchronously and evict the matching
cache entries before the command exits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(cmd, args[0])
	},
}

type eventFlags struct {
	MenuID  int64
	RoleIDs []int64
	Users   []string
	Reason  string
}

var eventOpts eventFlags

func publishEvent(cmd *cobra.Command, eventType string) error {
	event, err := buildEvent(eventType, eventOpts)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	rdb, err := session.NewRedisClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	cache := session.NewRedisCache(rdb)
	defer cache.Close()

	var users menu.RoleUsers
	if eventType == events.RoleMenusChanged {
		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()
		gdb, err := initGorm(db, cfg.Env)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}
		users = rolePostgres.NewRoleRepository(gdb)
	}

	bus := events.NewEventBus(lg)
	menu.NewCacheInvalidator(cache, users, lg).Register(bus)

	lg.Info("publishing event", "event_type", event.EventType(), "event_id", event.EventID())
	if err := bus.PublishSync(cmd.Context(), event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	lg.Info("event handled", "event_type", event.EventType())
	return nil
}

func buildEvent(eventType string, f eventFlags) (events.Event, error) {
	switch eventType {
	case events.MenuChanged:
		return events.NewMenuChanged(f.MenuID, "manual"), nil
	case events.RoleMenusChanged:
		if len(f.RoleIDs) == 0 {
			return nil, fmt.Errorf("%s needs at least one --role-id", eventType)
		}
		return events.NewRoleMenusChanged(f.RoleIDs...), nil
	case events.UserRolesChanged, events.SessionRevoked:
		refs, err := parseUserRefs(f.Users)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			return nil, fmt.Errorf("%s needs at least one --user", eventType)
		}
		if eventType == events.UserRolesChanged {
			return events.NewUserRolesChanged(refs...), nil
		}
		return events.NewSessionRevoked(f.Reason, refs...), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

// parseUserRefs reads values of the form id:username.
func parseUserRefs(values []string) ([]events.UserRef, error) {
	refs := make([]events.UserRef, 0, len(values))
	for _, v := range values {
		rawID, name, ok := strings.Cut(v, ":")
		id, err := strconv.ParseInt(rawID, 10, 64)
		if !ok || err != nil || id <= 0 || name == "" {
			return nil, fmt.Errorf("invalid --user %q, want id:username", v)
		}
		refs = append(refs, events.UserRef{ID: id, Username: name})
	}
	return refs, nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventOpts.MenuID, "menu-id", 0, "menu that changed")
	publishEventCmd.Flags().Int64SliceVar(&eventOpts.RoleIDs, "role-id", nil, "roles whose grants changed")
	publishEventCmd.Flags().StringSliceVar(&eventOpts.Users, "user", nil, "affected user as id:username, repeatable")
	publishEventCmd.Flags().StringVar(&eventOpts.Reason, "reason", "manual", "reason recorded with a session revocation")

	eventCmd.AddCommand(publishEventCmd)
}
