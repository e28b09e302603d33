package role

import "github.com/frahmantamala/rbac-admin/internal/core/common/pagination"

type SaveRoleDTO struct {
	Name        string  `json:"roleName" validate:"required,max=50"`
	RoleCode    string  `json:"roleCode" validate:"required,max=50"`
	Description string  `json:"description" validate:"max=50"`
	IsEnable    int     `json:"isEnable" validate:"oneof=0 1"`
	SortOrder   int     `json:"sortOrder" validate:"min=0"`
	Remark      string  `json:"remark" validate:"max=255"`
	Menus       []int64 `json:"menus"`
}

type ListQuery struct {
	pagination.Params
	Name     string
	RoleCode string
	IsEnable *int
}

type ChangeStatusDTO struct {
	RoleID   int64 `json:"roleId" validate:"required,min=1"`
	IsEnable int   `json:"isEnable" validate:"oneof=0 1"`
}

type SetMenusDTO struct {
	RoleID int64   `json:"roleId" validate:"required,min=1"`
	Menus  []int64 `json:"menus"`
}

type RoleUsersDTO struct {
	RoleID  int64   `json:"roleId" validate:"required,min=1"`
	UserIDs []int64 `json:"userIds"`
}
