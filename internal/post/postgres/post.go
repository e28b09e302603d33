package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	postDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/post"
	"github.com/frahmantamala/rbac-admin/internal/post"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) post.RepositoryAPI {
	return &PostRepository{db: db}
}

func (r *PostRepository) first(ctx context.Context, query string, args ...interface{}) (*postDatamodel.Post, error) {
	var p postDatamodel.Post
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where(query, args...).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*postDatamodel.Post, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostRepository) GetByCode(ctx context.Context, code string) (*postDatamodel.Post, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *PostRepository) List(ctx context.Context, q post.Query) ([]*postDatamodel.Post, int64, error) {
	tx := r.db.WithContext(ctx).Model(&postDatamodel.Post{}).Scopes(datamodel.Live)
	if q.Name != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Name+"%")
	}
	if q.Code != "" {
		tx = tx.Where("code LIKE ?", "%"+q.Code+"%")
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*postDatamodel.Post
	err := tx.Order("sort_order ASC").Order("id ASC").Offset(q.Offset).Limit(q.Limit).Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) Save(ctx context.Context, p *postDatamodel.Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PostRepository) UpdateStatus(ctx context.Context, id int64, status int, actor string) error {
	return r.db.WithContext(ctx).
		Model(&postDatamodel.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "update_by": actor}).Error
}

func (r *PostRepository) SoftDelete(ctx context.Context, id int64, actor string) error {
	return r.db.WithContext(ctx).
		Model(&postDatamodel.Post{}).
		Where("id = ?", id).
		Updates(datamodel.SoftDelete(actor)).Error
}
