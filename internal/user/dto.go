package user

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
)

type SaveUserDTO struct {
	Username    string  `json:"username" validate:"required,min=2,max=50"`
	Nickname    string  `json:"nickname" validate:"max=50"`
	Email       string  `json:"email" validate:"omitempty,email,max=50"`
	PhoneNumber string  `json:"phoneNum" validate:"max=20"`
	Name        string  `json:"name" validate:"max=50"`
	Sex         int     `json:"sex" validate:"omitempty,oneof=1 2 3"`
	JobNumber   string  `json:"jobNumber" validate:"max=50"`
	HeadPic     string  `json:"headPic" validate:"max=255"`
	DeptID      *int64  `json:"deptId"`
	Remark      string  `json:"remark" validate:"max=255"`
	RoleIDs     []int64 `json:"roleIds"`
	PostIDs     []int64 `json:"postIds"`
}

type ListQuery struct {
	pagination.Params
	DeptID      *int64
	Username    string
	Nickname    string
	Email       string
	PhoneNumber string
	IsFrozen    string
	StartTime   *time.Time
	EndTime     *time.Time
}

type ChangeStatusDTO struct {
	UserID   int64  `json:"userId" validate:"required,min=1"`
	IsFrozen string `json:"isFrozen" validate:"required,oneof=NORMAL FROZEN"`
}

type IDsDTO struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
}

type RemoveRoleDTO struct {
	UserID int64 `json:"userId" validate:"required,min=1"`
	RoleID int64 `json:"roleId" validate:"required,min=1"`
}
