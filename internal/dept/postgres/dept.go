package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	deptDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dept"
	"github.com/frahmantamala/rbac-admin/internal/dept"
)

type DeptRepository struct {
	db *gorm.DB
}

func NewDeptRepository(db *gorm.DB) dept.RepositoryAPI {
	return &DeptRepository{db: db}
}

func (r *DeptRepository) GetByID(ctx context.Context, id int64) (*deptDatamodel.Dept, error) {
	var d deptDatamodel.Dept
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DeptRepository) List(ctx context.Context, q dept.Query) ([]deptDatamodel.Dept, error) {
	tx := r.db.WithContext(ctx).Scopes(datamodel.Live)
	if q.DeptName != "" {
		tx = tx.Where("dept_name LIKE ?", "%"+q.DeptName+"%")
	}
	if q.DeptCode != "" {
		tx = tx.Where("dept_code LIKE ?", "%"+q.DeptCode+"%")
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	depts := []deptDatamodel.Dept{}
	err := tx.Order("order_num ASC").Order("id ASC").Find(&depts).Error
	return depts, err
}

func (r *DeptRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&deptDatamodel.Dept{}).
		Scopes(datamodel.Live).
		Where("parent_id = ?", id).
		Count(&n).Error
	return n, err
}

func (r *DeptRepository) Stats(ctx context.Context) (int64, int, error) {
	var row struct {
		MaxID    int64
		MaxOrder int
	}
	err := r.db.WithContext(ctx).
		Model(&deptDatamodel.Dept{}).
		Select("COALESCE(MAX(id), 0) AS max_id, COALESCE(MAX(order_num), 0) AS max_order").
		Scan(&row).Error
	return row.MaxID, row.MaxOrder, err
}

func (r *DeptRepository) Create(ctx context.Context, d *deptDatamodel.Dept) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DeptRepository) Update(ctx context.Context, d *deptDatamodel.Dept) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DeptRepository) UpdateStatus(ctx context.Context, id int64, status int, actor string) error {
	return r.db.WithContext(ctx).
		Model(&deptDatamodel.Dept{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "update_by": actor}).Error
}

func (r *DeptRepository) SoftDelete(ctx context.Context, id int64, actor string) error {
	return r.db.WithContext(ctx).
		Model(&deptDatamodel.Dept{}).
		Where("id = ?", id).
		Updates(datamodel.SoftDelete(actor)).Error
}
