package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(datamodel.Live).
		Preload("Roles", "del_flag = ?", datamodel.DelFlagNormal).
		Preload("Posts", "del_flag = ?", datamodel.DelFlagNormal).
		Where(query, args...).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(datamodel.Live).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// List pages live users; the super admin never appears.
func (r *UserRepository) List(ctx context.Context, q user.Query) ([]*userDatamodel.User, int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Scopes(datamodel.Live).
		Where("id <> ?", coreuser.SuperAdminID)

	if q.DeptID != nil {
		tx = tx.Where("dept_id = ?", *q.DeptID)
	}
	if q.Username != "" {
		tx = tx.Where("username LIKE ?", "%"+q.Username+"%")
	}
	if q.Nickname != "" {
		tx = tx.Where("nickname LIKE ?", "%"+q.Nickname+"%")
	}
	if q.Email != "" {
		tx = tx.Where("email LIKE ?", "%"+q.Email+"%")
	}
	if q.PhoneNumber != "" {
		tx = tx.Where("phone_number LIKE ?", "%"+q.PhoneNumber+"%")
	}
	if q.IsFrozen != "" {
		tx = tx.Where("is_frozen = ?", q.IsFrozen)
	}
	if q.StartTime != nil {
		tx = tx.Where("create_time >= ?", *q.StartTime)
	}
	if q.EndTime != nil {
		tx = tx.Where("create_time <= ?", *q.EndTime)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := tx.Order("create_time DESC").Order("id DESC").Offset(q.Offset).Limit(q.Limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) ListByRole(ctx context.Context, roleID int64, offset, limit int) ([]*userDatamodel.User, int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Joins("JOIN user_roles ur ON ur.user_id = users.id").
		Where("ur.role_id = ? AND users.del_flag = ?", roleID, datamodel.DelFlagNormal)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := tx.Order("users.id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Save(ctx context.Context, u *userDatamodel.User, roleIDs, postIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(u).Error; err != nil {
			return err
		}
		if roleIDs != nil {
			if err := tx.Where("user_id = ?", u.ID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
				return err
			}
			links := make([]userDatamodel.UserRole, 0, len(roleIDs))
			for _, id := range dedup(roleIDs) {
				links = append(links, userDatamodel.UserRole{UserID: u.ID, RoleID: id})
			}
			if len(links) > 0 {
				if err := tx.Create(&links).Error; err != nil {
					return err
				}
			}
		}
		if postIDs != nil {
			if err := tx.Where("user_id = ?", u.ID).Delete(&userDatamodel.UserPost{}).Error; err != nil {
				return err
			}
			links := make([]userDatamodel.UserPost, 0, len(postIDs))
			for _, id := range dedup(postIDs) {
				links = append(links, userDatamodel.UserPost{UserID: u.ID, PostID: id})
			}
			if len(links) > 0 {
				if err := tx.Create(&links).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *UserRepository) SoftDelete(ctx context.Context, ids []int64, actor string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id IN ?", ids).
		Updates(datamodel.SoftDelete(actor)).Error
}

func (r *UserRepository) UpdateColumns(ctx context.Context, id int64, cols map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(cols).Error
}

func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&userDatamodel.UserRole{}).Error
}

func dedup(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
