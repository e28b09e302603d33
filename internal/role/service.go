package role

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
)

var (
	ErrRoleNotFound   = internal.NewNotFoundError("角色不存在")
	ErrRoleCodeExists = internal.NewConflictError("角色编码已存在")
	ErrEmptyUserIDs   = internal.NewValidationError("用户id不能为空")
)

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, dto SaveRoleDTO) (*Role, error) {
	existing, err := s.repo.GetByCode(ctx, dto.RoleCode)
	if err != nil {
		return nil, fmt.Errorf("lookup role code: %w", err)
	}
	if existing != nil {
		return nil, ErrRoleCodeExists
	}

	r := &roleDatamodel.Role{
		Name:        dto.Name,
		RoleCode:    dto.RoleCode,
		Description: dto.Description,
		IsEnable:    dto.IsEnable,
		SortOrder:   dto.SortOrder,
	}
	r.Stamp(internal.ActorFromContext(ctx))
	r.Remark = dto.Remark

	menus := dto.Menus
	if menus == nil {
		menus = []int64{}
	}
	if err := s.repo.Save(ctx, r, menus); err != nil {
		s.logger.Error("failed to create role", "code", dto.RoleCode, "error", err)
		return nil, fmt.Errorf("save role: %w", err)
	}

	s.logger.Info("role created", "role_id", r.ID, "code", r.RoleCode)
	out := FromDataModel(r)
	return &out, nil
}

// Update rewrites the role scalars. Menu grants are replaced only when the
// dto carries a menu list.
func (s *Service) Update(ctx context.Context, id int64, dto SaveRoleDTO) (*Role, error) {
	r, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.RoleCode != r.RoleCode {
		existing, err := s.repo.GetByCode(ctx, dto.RoleCode)
		if err != nil {
			return nil, fmt.Errorf("lookup role code: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrRoleCodeExists
		}
	}

	r.Name = dto.Name
	r.RoleCode = dto.RoleCode
	r.Description = dto.Description
	r.IsEnable = dto.IsEnable
	r.SortOrder = dto.SortOrder
	r.Remark = dto.Remark
	r.UpdateBy = internal.ActorFromContext(ctx)
	r.Menus = nil

	if err := s.repo.Save(ctx, r, dto.Menus); err != nil {
		s.logger.Error("failed to update role", "role_id", id, "error", err)
		return nil, fmt.Errorf("save role: %w", err)
	}
	if dto.Menus != nil {
		s.menusChanged(ctx, id)
	}

	out := FromDataModel(r)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}
	// evict while the user links still exist
	s.menusChanged(ctx, id)

	if err := s.repo.SoftDelete(ctx, id, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	s.logger.Info("role deleted", "role_id", id)
	return nil
}

func (s *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	r, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	menus, err := s.repo.MenuIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load role menus: %w", err)
	}
	return &Detail{Role: FromDataModel(r), Menus: menus}, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (pagination.Page[Role], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, Query{
		Name:     q.Name,
		RoleCode: q.RoleCode,
		IsEnable: q.IsEnable,
		Offset:   params.Offset(),
		Limit:    params.Size,
	})
	if err != nil {
		return pagination.Page[Role]{}, fmt.Errorf("list roles: %w", err)
	}

	records := make([]Role, 0, len(rows))
	for _, r := range rows {
		records = append(records, FromDataModel(r))
	}
	return pagination.NewPage(records, params, total), nil
}

func (s *Service) GetMenus(ctx context.Context, id int64) ([]int64, error) {
	if _, err := s.mustGet(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.MenuIDs(ctx, id)
}

func (s *Service) SetMenus(ctx context.Context, dto SetMenusDTO) error {
	r, err := s.mustGet(ctx, dto.RoleID)
	if err != nil {
		return err
	}
	menus := dto.Menus
	if menus == nil {
		menus = []int64{}
	}
	r.UpdateBy = internal.ActorFromContext(ctx)
	r.Menus = nil
	if err := s.repo.Save(ctx, r, menus); err != nil {
		return fmt.Errorf("save role menus: %w", err)
	}
	s.menusChanged(ctx, dto.RoleID)
	return nil
}

func (s *Service) ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error {
	if _, err := s.mustGet(ctx, dto.RoleID); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, dto.RoleID, dto.IsEnable, internal.ActorFromContext(ctx))
}

func (s *Service) AddUsers(ctx context.Context, dto RoleUsersDTO) error {
	if len(dto.UserIDs) == 0 {
		return ErrEmptyUserIDs
	}
	if _, err := s.mustGet(ctx, dto.RoleID); err != nil {
		return err
	}
	if err := s.repo.AddUsers(ctx, dto.RoleID, dto.UserIDs); err != nil {
		return fmt.Errorf("add role users: %w", err)
	}
	s.menusChanged(ctx, dto.RoleID)
	return nil
}

func (s *Service) RemoveUsers(ctx context.Context, dto RoleUsersDTO) error {
	if len(dto.UserIDs) == 0 {
		return ErrEmptyUserIDs
	}
	if _, err := s.mustGet(ctx, dto.RoleID); err != nil {
		return err
	}
	s.menusChanged(ctx, dto.RoleID)
	if err := s.repo.RemoveUsers(ctx, dto.RoleID, dto.UserIDs); err != nil {
		return fmt.Errorf("remove role users: %w", err)
	}
	return nil
}

func (s *Service) mustGet(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get role %d: %w", id, err)
	}
	if r == nil {
		return nil, ErrRoleNotFound
	}
	return r, nil
}

// menusChanged is best effort: a failed eviction leaves trees to expire with
// their TTL and must not fail the mutation that already committed.
func (s *Service) menusChanged(ctx context.Context, roleIDs ...int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, events.NewRoleMenusChanged(roleIDs...)); err != nil {
		s.logger.Warn("menu cache eviction failed", "role_ids", roleIDs, "error", err)
	}
}
