package post

import (
	"context"
	"time"

	postDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/post"
)

type Query struct {
	Name   string
	Code   string
	Status *int
	Offset int
	Limit  int
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*postDatamodel.Post, error)
	GetByCode(ctx context.Context, code string) (*postDatamodel.Post, error)
	List(ctx context.Context, q Query) ([]*postDatamodel.Post, int64, error)
	Save(ctx context.Context, p *postDatamodel.Post) error
	UpdateStatus(ctx context.Context, id int64, status int, actor string) error
	SoftDelete(ctx context.Context, id int64, actor string) error
}

type Post struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder"`
	Status      int       `json:"status"`
	Remark      string    `json:"remark"`
	CreateTime  time.Time `json:"createTime"`
}

func FromDataModel(p *postDatamodel.Post) Post {
	return Post{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		SortOrder:   p.SortOrder,
		Status:      p.Status,
		Remark:      p.Remark,
		CreateTime:  p.CreateTime,
	}
}
