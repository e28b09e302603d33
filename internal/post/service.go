package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	postDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/post"
)

var (
	ErrPostNotFound   = internal.NewNotFoundError("岗位不存在")
	ErrPostCodeExists = internal.NewConflictError("岗位编码已存在")
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, dto SavePostDTO) (*Post, error) {
	if err := s.checkCode(ctx, dto.Code, 0); err != nil {
		return nil, err
	}
	p := &postDatamodel.Post{}
	applyDTO(p, dto)
	p.Stamp(internal.ActorFromContext(ctx))
	p.Remark = dto.Remark

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	out := FromDataModel(p)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto SavePostDTO) (*Post, error) {
	p, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Code != p.Code {
		if err := s.checkCode(ctx, dto.Code, id); err != nil {
			return nil, err
		}
	}
	applyDTO(p, dto)
	p.Remark = dto.Remark
	p.UpdateBy = internal.ActorFromContext(ctx)

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	out := FromDataModel(p)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.logger.Info("post deleted", "post_id", id)
	return nil
}

func (s *Service) Detail(ctx context.Context, id int64) (*Post, error) {
	p, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromDataModel(p)
	return &out, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (pagination.Page[Post], error) {
	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, Query{
		Name:   q.Name,
		Code:   q.Code,
		Status: q.Status,
		Offset: params.Offset(),
		Limit:  params.Size,
	})
	if err != nil {
		return pagination.Page[Post]{}, fmt.Errorf("list posts: %w", err)
	}
	records := make([]Post, 0, len(rows))
	for _, p := range rows {
		records = append(records, FromDataModel(p))
	}
	return pagination.NewPage(records, params, total), nil
}

func (s *Service) ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error {
	if _, err := s.mustGet(ctx, dto.ID); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, dto.ID, dto.Status, internal.ActorFromContext(ctx))
}

func (s *Service) checkCode(ctx context.Context, code string, selfID int64) error {
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup post code: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrPostCodeExists
	}
	return nil
}

func (s *Service) mustGet(ctx context.Context, id int64) (*postDatamodel.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func applyDTO(p *postDatamodel.Post, dto SavePostDTO) {
	p.Name = dto.Name
	p.Code = dto.Code
	p.Description = dto.Description
	p.SortOrder = dto.SortOrder
	p.Status = dto.Status
}
