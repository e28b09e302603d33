package loginlog

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
)

type ListQuery struct {
	pagination.Params
	Username  string
	IPAddr    string
	Status    string
	StartTime *time.Time
	EndTime   *time.Time
}
