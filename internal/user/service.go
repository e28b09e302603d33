package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
)

// DefaultPassword is given to users created or reset from the back office.
const DefaultPassword = "123456"

var ErrSuperAdminProtected = internal.NewBusinessError("不允许操作超级管理员")

type Options struct {
	DefaultPassword string
	BCryptCost      int
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	opts      Options
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, opts Options, logger *slog.Logger) *Service {
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = DefaultPassword
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// Create adds a back-office user with the default password.
func (s *Service) Create(ctx context.Context, dto SaveUserDTO) (*Detail, error) {
	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(s.opts.DefaultPassword, s.opts.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &userDatamodel.User{
		Password: hash,
		IsFrozen: userDatamodel.FrozenNormal,
		IsAdmin:  userDatamodel.AdminYes,
	}
	applyDTO(u, dto)
	u.Stamp(internal.ActorFromContext(ctx))
	u.Remark = dto.Remark

	if err := s.repo.Save(ctx, u, orEmpty(dto.RoleIDs), orEmpty(dto.PostIDs)); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	return s.Detail(ctx, u.ID)
}

// Update rewrites the profile. Roles and posts are replaced only when the dto
// carries the list.
func (s *Service) Update(ctx context.Context, id int64, dto SaveUserDTO) (*Detail, error) {
	u, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Username != u.Username {
		existing, err := s.repo.GetByUsername(ctx, dto.Username)
		if err != nil {
			return nil, fmt.Errorf("lookup username: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, internal.ErrUsernameTaken
		}
		// cache keys embed the username
		s.publish(ctx, events.NewSessionRevoked("renamed", ref(u)))
	}

	applyDTO(u, dto)
	u.Remark = dto.Remark
	u.UpdateBy = internal.ActorFromContext(ctx)
	u.Roles = nil
	u.Posts = nil

	if err := s.repo.Save(ctx, u, dto.RoleIDs, dto.PostIDs); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, fmt.Errorf("save user: %w", err)
	}
	if dto.RoleIDs != nil {
		s.publish(ctx, events.NewUserRolesChanged(ref(u)))
	}
	return s.Detail(ctx, id)
}

func (s *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	u, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDetail(u), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.BatchDelete(ctx, IDsDTO{IDs: []int64{id}})
}

// BatchDelete soft deletes the users and drops their sessions.
func (s *Service) BatchDelete(ctx context.Context, dto IDsDTO) error {
	for _, id := range dto.IDs {
		if id == coreuser.SuperAdminID {
			return ErrSuperAdminProtected
		}
	}

	rows, err := s.repo.FindByIDs(ctx, dto.IDs)
	if err != nil {
		return fmt.Errorf("find users: %w", err)
	}
	if len(rows) == 0 {
		return internal.ErrUserNotFound
	}

	refs := make([]events.UserRef, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, u := range rows {
		refs = append(refs, ref(u))
		ids = append(ids, u.ID)
	}
	if err := s.repo.SoftDelete(ctx, ids, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	s.publish(ctx, events.NewSessionRevoked("deleted", refs...))
	s.logger.Info("users deleted", "user_ids", ids)
	return nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (pagination.Page[User], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, Query{
		DeptID:      q.DeptID,
		Username:    q.Username,
		Nickname:    q.Nickname,
		Email:       q.Email,
		PhoneNumber: q.PhoneNumber,
		IsFrozen:    q.IsFrozen,
		StartTime:   q.StartTime,
		EndTime:     q.EndTime,
		Offset:      params.Offset(),
		Limit:       params.Size,
	})
	if err != nil {
		return pagination.Page[User]{}, fmt.Errorf("list users: %w", err)
	}
	return pagination.NewPage(toViews(rows), params, total), nil
}

func (s *Service) ListByRole(ctx context.Context, roleID int64, params pagination.Params) (pagination.Page[User], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListByRole(ctx, roleID, params.Offset(), params.Size)
	if err != nil {
		return pagination.Page[User]{}, fmt.Errorf("list role users: %w", err)
	}
	return pagination.NewPage(toViews(rows), params, total), nil
}

func (s *Service) RemoveRole(ctx context.Context, dto RemoveRoleDTO) error {
	if dto.UserID == coreuser.SuperAdminID {
		return ErrSuperAdminProtected
	}
	u, err := s.mustGet(ctx, dto.UserID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveRole(ctx, dto.UserID, dto.RoleID); err != nil {
		return fmt.Errorf("remove user role: %w", err)
	}
	s.publish(ctx, events.NewUserRolesChanged(ref(u)))
	return nil
}

// ChangeStatus freezes or unfreezes a user; freezing ends the user's session.
func (s *Service) ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error {
	if dto.UserID == coreuser.SuperAdminID && dto.IsFrozen == userDatamodel.FrozenFrozen {
		return ErrSuperAdminProtected
	}
	u, err := s.mustGet(ctx, dto.UserID)
	if err != nil {
		return err
	}
	err = s.repo.UpdateColumns(ctx, u.ID, map[string]interface{}{
		"is_frozen": dto.IsFrozen,
		"update_by": internal.ActorFromContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("change user status: %w", err)
	}
	if dto.IsFrozen == userDatamodel.FrozenFrozen {
		s.publish(ctx, events.NewSessionRevoked("frozen", ref(u)))
	}
	s.logger.Info("user status changed", "user_id", u.ID, "is_frozen", dto.IsFrozen)
	return nil
}

// ResetPassword restores the default password and ends the session.
func (s *Service) ResetPassword(ctx context.Context, id int64) error {
	u, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(s.opts.DefaultPassword, s.opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.repo.UpdateColumns(ctx, id, map[string]interface{}{
		"password":  hash,
		"update_by": internal.ActorFromContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.publish(ctx, events.NewSessionRevoked("password_reset", ref(u)))
	return nil
}

func (s *Service) mustGet(ctx context.Context, id int64) (*userDatamodel.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// publish is best effort; cached entries still expire with their TTL.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, e); err != nil {
		s.logger.Warn("user cache eviction failed", "event", e.EventType(), "error", err)
	}
}

func applyDTO(u *userDatamodel.User, dto SaveUserDTO) {
	u.Username = dto.Username
	u.Nickname = dto.Nickname
	u.Email = dto.Email
	u.PhoneNumber = dto.PhoneNumber
	u.Name = dto.Name
	u.JobNumber = dto.JobNumber
	u.HeadPic = dto.HeadPic
	u.DeptID = dto.DeptID
	u.Sex = dto.Sex
	if u.Sex == 0 {
		u.Sex = userDatamodel.SexUnknown
	}
}

func ref(u *userDatamodel.User) events.UserRef {
	return events.UserRef{ID: u.ID, Username: u.Username}
}

func orEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
