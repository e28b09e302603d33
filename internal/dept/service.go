package dept

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	deptDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dept"
	"github.com/frahmantamala/rbac-admin/internal/core/tree"
)

var (
	ErrDeptNotFound   = internal.NewNotFoundError("部门不存在")
	ErrParentNotFound = internal.NewNotFoundError("上级部门不存在")
	ErrSelfParent     = internal.NewValidationError("上级部门不能是自己")
	ErrHasChildren    = internal.NewBusinessError("存在下级部门,不允许删除")
)

var deptAccessor = tree.Accessor[deptDatamodel.Dept]{
	ID:       func(d deptDatamodel.Dept) int64 { return d.ID },
	ParentID: func(d deptDatamodel.Dept) int64 { return d.ParentID },
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List nests the matching departments under the requested parent. Results
// that do not reach that parent, typical of a name search, come back flat.
func (s *Service) List(ctx context.Context, q Query) ([]*Dept, error) {
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list depts: %w", err)
	}

	root := tree.RootID
	if q.ParentID != nil {
		root = *q.ParentID
	}
	forest := buildTree(rows, root)
	if len(forest) == 0 && len(rows) > 0 {
		flat := make([]*Dept, 0, len(rows))
		for _, d := range rows {
			flat = append(flat, FromDataModel(d))
		}
		return flat, nil
	}
	return forest, nil
}

// Tree returns every enabled department nested from the root.
func (s *Service) Tree(ctx context.Context) ([]*Dept, error) {
	enabled := datamodel.StatusEnable
	rows, err := s.repo.List(ctx, Query{Status: &enabled})
	if err != nil {
		return nil, fmt.Errorf("list depts: %w", err)
	}
	return buildTree(rows, tree.RootID), nil
}

func buildTree(rows []deptDatamodel.Dept, root int64) []*Dept {
	return tree.Map(tree.Build(rows, deptAccessor, root), FromDataModel,
		func(n *Dept, children []*Dept) *Dept {
			n.Children = children
			return n
		})
}

func (s *Service) Detail(ctx context.Context, id int64) (*Dept, error) {
	d, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(*d), nil
}

func (s *Service) Create(ctx context.Context, dto SaveDeptDTO) (*Dept, error) {
	if err := s.checkParent(ctx, dto.ParentID); err != nil {
		return nil, err
	}
	d := &deptDatamodel.Dept{}
	applyDTO(d, dto)
	d.Stamp(internal.ActorFromContext(ctx))
	d.Remark = dto.Remark

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create dept: %w", err)
	}
	s.logger.Info("dept created", "dept_id", d.ID, "code", d.DeptCode)
	return FromDataModel(*d), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto SaveDeptDTO) (*Dept, error) {
	d, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.ParentID == id {
		return nil, ErrSelfParent
	}
	if err := s.checkParent(ctx, dto.ParentID); err != nil {
		return nil, err
	}

	applyDTO(d, dto)
	d.Remark = dto.Remark
	d.UpdateBy = internal.ActorFromContext(ctx)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update dept: %w", err)
	}
	return FromDataModel(*d), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("count children: %w", err)
	}
	if n > 0 {
		return ErrHasChildren
	}
	if err := s.repo.SoftDelete(ctx, id, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete dept: %w", err)
	}
	s.logger.Info("dept deleted", "dept_id", id)
	return nil
}

func (s *Service) ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error {
	if _, err := s.mustGet(ctx, dto.ID); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, dto.ID, dto.Status, internal.ActorFromContext(ctx))
}

// Constant suggests the next DEPTnnnn code and order number.
func (s *Service) Constant(ctx context.Context) (*Constant, error) {
	maxID, maxOrder, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dept stats: %w", err)
	}
	return &Constant{
		DeptCode: fmt.Sprintf("DEPT%04d", maxID+1),
		OrderNum: maxOrder + 1,
	}, nil
}

func (s *Service) checkParent(ctx context.Context, parentID int64) error {
	if parentID == tree.RootID {
		return nil
	}
	p, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("get parent dept: %w", err)
	}
	if p == nil {
		return ErrParentNotFound
	}
	return nil
}

func (s *Service) mustGet(ctx context.Context, id int64) (*deptDatamodel.Dept, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dept %d: %w", id, err)
	}
	if d == nil {
		return nil, ErrDeptNotFound
	}
	return d, nil
}

func applyDTO(d *deptDatamodel.Dept, dto SaveDeptDTO) {
	d.DeptName = dto.DeptName
	d.DeptCode = dto.DeptCode
	d.FullName = dto.FullName
	d.ParentID = dto.ParentID
	d.OrderNum = dto.OrderNum
	d.DeptType = dto.DeptType
	d.Leader = dto.Leader
	d.Phone = dto.Phone
	d.Email = dto.Email
	d.Status = dto.Status
	d.PostalCode = dto.PostalCode
	d.Address = dto.Address
}
