package post

import "github.com/frahmantamala/rbac-admin/internal/core/common/pagination"

type SavePostDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=100"`
	Description string `json:"description" validate:"max=100"`
	SortOrder   int    `json:"sortOrder" validate:"min=0"`
	Status      int    `json:"status" validate:"oneof=0 1"`
	Remark      string `json:"remark" validate:"max=255"`
}

type ListQuery struct {
	pagination.Params
	Name   string
	Code   string
	Status *int
}

type ChangeStatusDTO struct {
	ID     int64 `json:"id" validate:"required,min=1"`
	Status int   `json:"status" validate:"oneof=0 1"`
}
