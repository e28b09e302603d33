package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	dictDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dict"
	"github.com/frahmantamala/rbac-admin/internal/dict"
)

type DictRepository struct {
	db *gorm.DB
}

func NewDictRepository(db *gorm.DB) dict.RepositoryAPI {
	return &DictRepository{db: db}
}

func (r *DictRepository) firstDict(ctx context.Context, query string, args ...interface{}) (*dictDatamodel.Dict, error) {
	var d dictDatamodel.Dict
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where(query, args...).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DictRepository) GetDict(ctx context.Context, id int64) (*dictDatamodel.Dict, error) {
	return r.firstDict(ctx, "id = ?", id)
}

func (r *DictRepository) GetDictByCode(ctx context.Context, code string) (*dictDatamodel.Dict, error) {
	return r.firstDict(ctx, "dict_code = ?", code)
}

func (r *DictRepository) ListDicts(ctx context.Context, name string) ([]*dictDatamodel.Dict, error) {
	tx := r.db.WithContext(ctx).Scopes(datamodel.Live)
	if name != "" {
		like := "%" + name + "%"
		tx = tx.Where("dict_name LIKE ? OR dict_code LIKE ?", like, like)
	}
	var dicts []*dictDatamodel.Dict
	err := tx.Order("id ASC").Find(&dicts).Error
	return dicts, err
}

func (r *DictRepository) SaveDict(ctx context.Context, d *dictDatamodel.Dict) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(d).Error; err != nil {
			return err
		}
		return tx.Model(&dictDatamodel.DictData{}).
			Where("dict_type_id = ? AND dict_type <> ?", d.ID, d.DictCode).
			Update("dict_type", d.DictCode).Error
	})
}

func (r *DictRepository) SoftDeleteDict(ctx context.Context, id int64, actor string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&dictDatamodel.DictData{}).
			Scopes(datamodel.Live).
			Where("dict_type_id = ?", id).
			Updates(datamodel.SoftDelete(actor)).Error
		if err != nil {
			return err
		}
		return tx.Model(&dictDatamodel.Dict{}).
			Where("id = ?", id).
			Updates(datamodel.SoftDelete(actor)).Error
	})
}

func (r *DictRepository) GetData(ctx context.Context, id int64) (*dictDatamodel.DictData, error) {
	var d dictDatamodel.DictData
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DictRepository) ListData(ctx context.Context, typeID int64, offset, limit int) ([]*dictDatamodel.DictData, int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&dictDatamodel.DictData{}).
		Scopes(datamodel.Live).
		Where("dict_type_id = ?", typeID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*dictDatamodel.DictData
	err := tx.Order("dict_sort ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *DictRepository) DataByType(ctx context.Context, code string) ([]*dictDatamodel.DictData, error) {
	var rows []*dictDatamodel.DictData
	err := r.db.WithContext(ctx).
		Scopes(datamodel.Live).
		Where("dict_type = ?", code).
		Order("dict_sort ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *DictRepository) SaveData(ctx context.Context, d *dictDatamodel.DictData) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DictRepository) SoftDeleteData(ctx context.Context, id int64, actor string) error {
	return r.db.WithContext(ctx).
		Model(&dictDatamodel.DictData{}).
		Where("id = ?", id).
		Updates(datamodel.SoftDelete(actor)).Error
}
