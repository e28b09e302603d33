package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) withRoles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Scopes(datamodel.Live).
		Preload("Roles", "del_flag = ?", datamodel.DelFlagNormal)
}

func (r *AuthRepository) FindAdminByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.withRoles(ctx).
		Where("username = ? AND is_admin = ?", username, userDatamodel.AdminYes).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) FindByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.withRoles(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Scopes(datamodel.Live).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *AuthRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Omit("Roles", "Posts").Create(u).Error
}

func (r *AuthRepository) UpdatePassword(ctx context.Context, id int64, hash string, actor string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password": hash, "update_by": actor}).Error
}
