package menu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/core/tree"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/metrics"
	"github.com/frahmantamala/rbac-admin/internal/session"
)

var (
	ErrNoMenuData     = internal.NewBusinessError("暂无菜单数据,请联系管理员")
	ErrMenuNotFound   = internal.NewNotFoundError("菜单不存在")
	ErrParentNotFound = internal.NewNotFoundError("父级菜单不存在")
	ErrHasChildren    = internal.NewBusinessError("该菜单下存在子菜单，无法删除")
)

var menuAccessor = tree.Accessor[menuDatamodel.Menu]{
	ID:       func(m menuDatamodel.Menu) int64 { return m.ID },
	ParentID: func(m menuDatamodel.Menu) int64 { return m.ParentMenuID },
}

type Service struct {
	repo      RepositoryAPI
	resolver  MenuResolver
	cache     session.Cache
	publisher events.Publisher
	ttl       time.Duration
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, resolver MenuResolver, cache session.Cache, publisher events.Publisher, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		resolver:  resolver,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
		logger:    logger,
	}
}

// GetUserMenuList serves the user's navigation tree from the session cache,
// rebuilding and caching it on a miss.
func (s *Service) GetUserMenuList(ctx context.Context, p *coreuser.Principal) ([]*UserMenu, error) {
	key := session.UserMenuKey(p.Username, p.ID)

	var cached []*UserMenu
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, fmt.Errorf("read menu cache: %w", err)
	}
	metrics.RecordMenuCache(found)
	if found {
		return cached, nil
	}

	ids, err := s.resolver.ResolveUserMenuIDs(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve menus: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNoMenuData
	}

	rows, err := s.repo.FindNavigable(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoMenuData
	}

	menus := buildUserMenus(rows)
	if err := s.cache.Set(ctx, key, menus, s.ttl); err != nil {
		return nil, fmt.Errorf("write menu cache: %w", err)
	}

	s.logger.Debug("user menu tree rebuilt", "user_id", p.ID, "menus", len(rows))
	return menus, nil
}

// buildUserMenus nests rows under the -1 root. When no row sits at the root the
// rows are returned flat.
func buildUserMenus(rows []menuDatamodel.Menu) []*UserMenu {
	hasRoot := false
	for _, m := range rows {
		if m.ParentMenuID == tree.RootID {
			hasRoot = true
			break
		}
	}
	if !hasRoot {
		out := make([]*UserMenu, 0, len(rows))
		for _, m := range rows {
			out = append(out, NewUserMenu(m))
		}
		return out
	}

	return tree.Map(tree.Build(rows, menuAccessor, tree.RootID), NewUserMenu,
		func(n *UserMenu, children []*UserMenu) *UserMenu {
			n.Children = children
			return n
		})
}

// TreeList returns live menus whose name contains name, nested by parent.
func (s *Service) TreeList(ctx context.Context, name string) ([]*Menu, error) {
	rows, err := s.repo.FindAll(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return tree.Map(tree.Build(rows, menuAccessor, tree.RootID), FromDataModel,
		func(n *Menu, children []*Menu) *Menu {
			n.Children = children
			return n
		}), nil
}

func (s *Service) Detail(ctx context.Context, id int64) (*Menu, error) {
	m, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(*m), nil
}

func (s *Service) Create(ctx context.Context, dto SaveMenuDTO) (*Menu, error) {
	if err := s.checkParent(ctx, dto.ParentID); err != nil {
		return nil, err
	}

	m := &menuDatamodel.Menu{KeepAlive: "0", Visible: "0", Embedded: "0", IsIframe: "0"}
	applyDTO(m, dto)
	m.Stamp(internal.ActorFromContext(ctx))

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("failed to create menu", "name", dto.Name, "error", err)
		return nil, fmt.Errorf("create menu: %w", err)
	}
	s.changed(ctx, m.ID, "create")
	return FromDataModel(*m), nil
}

func (s *Service) Update(ctx context.Context, dto UpdateMenuDTO) (*Menu, error) {
	m, err := s.mustGet(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	if dto.ParentID == dto.ID {
		return nil, internal.NewValidationError("上级菜单不能是自己")
	}
	if err := s.checkParent(ctx, dto.ParentID); err != nil {
		return nil, err
	}

	applyDTO(m, dto.SaveMenuDTO)
	m.UpdateBy = internal.ActorFromContext(ctx)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update menu: %w", err)
	}
	s.changed(ctx, m.ID, "update")
	return FromDataModel(*m), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("count menu children: %w", err)
	}
	if children > 0 {
		return ErrHasChildren
	}

	if err := s.repo.SoftDelete(ctx, id, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	s.changed(ctx, id, "delete")
	return nil
}

// applyDTO copies fields that apply to the menu kind. Buttons carry no path,
// only pages carry a component and display flags are kept for directories and
// pages.
func applyDTO(m *menuDatamodel.Menu, dto SaveMenuDTO) {
	m.MenuType = dto.MenuType
	m.Name = dto.Name
	m.EnName = dto.EnName
	m.ParentMenuID = dto.ParentID
	m.Permission = dto.Permission
	m.SortOrder = dto.SortOrder

	m.Path = ""
	if dto.MenuType != menuDatamodel.TypeButton {
		m.Path = dto.Path
	}
	m.Component = ""
	if dto.MenuType == menuDatamodel.TypePage {
		m.Component = dto.Component
	}
	if dto.MenuType == menuDatamodel.TypeDirectory || dto.MenuType == menuDatamodel.TypePage {
		m.Icon = dto.Icon
		m.KeepAlive = flag(dto.IsKeepAlive)
		m.IsIframe = flag(dto.IsIframe)
		m.Visible = flag(dto.IsHide)
	}
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (s *Service) checkParent(ctx context.Context, parentID int64) error {
	if parentID == tree.RootID {
		return nil
	}
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("get parent menu: %w", err)
	}
	if parent == nil {
		return ErrParentNotFound
	}
	return nil
}

func (s *Service) mustGet(ctx context.Context, id int64) (*menuDatamodel.Menu, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get menu %d: %w", id, err)
	}
	if m == nil {
		return nil, ErrMenuNotFound
	}
	return m, nil
}

func (s *Service) changed(ctx context.Context, id int64, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, events.NewMenuChanged(id, action)); err != nil {
		s.logger.Warn("menu cache eviction failed", "menu_id", id, "error", err)
	}
}
