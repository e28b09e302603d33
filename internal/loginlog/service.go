package loginlog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	loginlogDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/loginlog"
)

var ErrInvalidStatus = internal.NewValidationError("status 只能是 0 或 1")

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List pages login attempts newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (pagination.Page[LoginLog], error) {
	switch q.Status {
	case "", loginlogDatamodel.StatusFailure, loginlogDatamodel.StatusSuccess:
	default:
		return pagination.Page[LoginLog]{}, ErrInvalidStatus
	}

	params := q.Params.Normalize()
	rows, total, err := s.repo.List(ctx, Query{
		Username:  q.Username,
		IPAddr:    q.IPAddr,
		Status:    q.Status,
		StartTime: q.StartTime,
		EndTime:   q.EndTime,
		Offset:    params.Offset(),
		Limit:     params.Size,
	})
	if err != nil {
		return pagination.Page[LoginLog]{}, fmt.Errorf("list login logs: %w", err)
	}

	out := make([]LoginLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return pagination.NewPage(out, params, total), nil
}
