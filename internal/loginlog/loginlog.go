package loginlog

import (
	"context"
	"time"

	loginlogDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/loginlog"
)

type Query struct {
	Username  string
	IPAddr    string
	Status    string
	StartTime *time.Time
	EndTime   *time.Time
	Offset    int
	Limit     int
}

type RepositoryAPI interface {
	Insert(ctx context.Context, row *loginlogDatamodel.LoginLog) error
	List(ctx context.Context, q Query) ([]loginlogDatamodel.LoginLog, int64, error)
}

type LoginLog struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	IPAddr        string    `json:"ipaddr"`
	LoginLocation string    `json:"loginLocation"`
	LoginTime     time.Time `json:"loginTime"`
	Browser       string    `json:"browser"`
	OS            string    `json:"os"`
	Status        string    `json:"status"`
	Msg           string    `json:"msg"`
}

func FromDataModel(row loginlogDatamodel.LoginLog) LoginLog {
	return LoginLog{
		ID:            row.ID,
		Username:      row.Username,
		IPAddr:        row.IPAddr,
		LoginLocation: row.LoginLocation,
		LoginTime:     row.LoginTime,
		Browser:       row.Browser,
		OS:            row.OS,
		Status:        row.Status,
		Msg:           row.Msg,
	}
}
