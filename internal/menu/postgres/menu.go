package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/menu"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) menu.RepositoryAPI {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) FindNavigable(ctx context.Context, ids []int64) ([]menuDatamodel.Menu, error) {
	menus := []menuDatamodel.Menu{}
	if len(ids) == 0 {
		return menus, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(datamodel.Live).
		Where("menu_type IN ?", []int{menuDatamodel.TypeDirectory, menuDatamodel.TypePage}).
		Where("id IN ?", ids).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) FindAll(ctx context.Context, name string) ([]menuDatamodel.Menu, error) {
	menus := []menuDatamodel.Menu{}
	tx := r.db.WithContext(ctx).Scopes(datamodel.Live)
	if name != "" {
		tx = tx.Where("name LIKE ?", "%"+name+"%")
	}
	err := tx.Order("sort_order ASC").Order("id ASC").Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*menuDatamodel.Menu, error) {
	var m menuDatamodel.Menu
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&menuDatamodel.Menu{}).
		Scopes(datamodel.Live).
		Where("parent_menu_id = ?", id).
		Count(&n).Error
	return n, err
}

func (r *MenuRepository) Create(ctx context.Context, m *menuDatamodel.Menu) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MenuRepository) Update(ctx context.Context, m *menuDatamodel.Menu) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MenuRepository) SoftDelete(ctx context.Context, id int64, actor string) error {
	return r.db.WithContext(ctx).
		Model(&menuDatamodel.Menu{}).
		Where("id = ?", id).
		Updates(datamodel.SoftDelete(actor)).Error
}
