package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/role"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindWithMenus(ctx context.Context, ids []int64) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(datamodel.Live).
		Preload("Menus", "del_flag = ?", datamodel.DelFlagNormal).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	var ro roleDatamodel.Role
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where("id = ?", id).First(&ro).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ro, nil
}

func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*roleDatamodel.Role, error) {
	var ro roleDatamodel.Role
	err := r.db.WithContext(ctx).Scopes(datamodel.Live).Where("role_code = ?", code).First(&ro).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ro, nil
}

func (r *RoleRepository) List(ctx context.Context, q role.Query) ([]*roleDatamodel.Role, int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Scopes(datamodel.Live).
		Where("role_code <> ?", roleDatamodel.SuperAdminCode)

	if q.Name != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Name+"%")
	}
	if q.RoleCode != "" {
		tx = tx.Where("role_code LIKE ?", "%"+q.RoleCode+"%")
	}
	if q.IsEnable != nil {
		tx = tx.Where("is_enable = ?", *q.IsEnable)
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

	var roles []*roleDatamodel.Role
	err := tx.Order("sort_order DESC").Order("id ASC").Offset(q.Offset).Limit(q.Limit).Find(&roles).Error
	return roles, total, err
}

func (r *RoleRepository) Save(ctx context.Context, ro *roleDatamodel.Role, menuIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(ro).Error; err != nil {
			return err
		}
		if menuIDs == nil {
			return nil
		}

		if err := tx.Where("role_id = ?", ro.ID).Delete(&roleDatamodel.RoleMenu{}).Error; err != nil {
			return err
		}
		links := make([]roleDatamodel.RoleMenu, 0, len(menuIDs))
		seen := make(map[int64]struct{}, len(menuIDs))
		for _, id := range menuIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			links = append(links, roleDatamodel.RoleMenu{RoleID: ro.ID, MenuID: id})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

func (r *RoleRepository) SoftDelete(ctx context.Context, id int64, actor string) error {
	return r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("id = ?", id).
		Updates(datamodel.SoftDelete(actor)).Error
}

// MenuIDs lists the live menus granted to a role.
func (r *RoleRepository) MenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Table("role_menus rm").
		Joins("JOIN menu m ON m.id = rm.menu_id AND m.del_flag = ?", datamodel.DelFlagNormal).
		Where("rm.role_id = ?", roleID).
		Order("rm.menu_id ASC").
		Pluck("rm.menu_id", &ids).Error
	return ids, err
}

func (r *RoleRepository) UpdateStatus(ctx context.Context, id int64, isEnable int, actor string) error {
	return r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_enable": isEnable, "update_by": actor}).Error
}

func (r *RoleRepository) AddUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	links := make([]userDatamodel.UserRole, 0, len(userIDs))
	for _, uid := range userIDs {
		links = append(links, userDatamodel.UserRole{UserID: uid, RoleID: roleID})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *RoleRepository) RemoveUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	return r.db.WithContext(ctx).
		Where("role_id = ? AND user_id IN ?", roleID, userIDs).
		Delete(&userDatamodel.UserRole{}).Error
}

func (r *RoleRepository) LiveRoleIDsOfUser(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Table("roles r").
		Joins("JOIN user_roles ur ON ur.role_id = r.id").
		Where("ur.user_id = ? AND r.del_flag = ?", userID, datamodel.DelFlagNormal).
		Order("r.id ASC").
		Pluck("r.id", &ids).Error
	return ids, err
}

func (r *RoleRepository) UsersWithRoles(ctx context.Context, roleIDs []int64) ([]role.UserIdentity, error) {
	out := []role.UserIdentity{}
	if len(roleIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("DISTINCT u.id, u.username").
		Joins("JOIN user_roles ur ON ur.user_id = u.id").
		Where("ur.role_id IN ? AND u.del_flag = ?", roleIDs, datamodel.DelFlagNormal).
		Scan(&out).Error
	return out, err
}
