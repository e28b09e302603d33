package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	loginlogDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/loginlog"
	"github.com/frahmantamala/rbac-admin/internal/loginlog"
)

const (
	insertLoginLog = `INSERT INTO login_log (username, ipaddr, login_location, login_time, browser, os, status, msg)
VALUES (:username, :ipaddr, :login_location, :login_time, :browser, :os, :status, :msg) RETURNING id`

	selectLoginLog = `SELECT id, username, ipaddr, login_location, login_time, browser, os, status, msg FROM login_log`
)

type LoginLogRepository struct {
	db *sqlx.DB
}

func NewLoginLogRepository(db *sqlx.DB) loginlog.RepositoryAPI {
	return &LoginLogRepository{db: db}
}

func (r *LoginLogRepository) Insert(ctx context.Context, row *loginlogDatamodel.LoginLog) error {
	query, args, err := sqlx.Named(insertLoginLog, row)
	if err != nil {
		return fmt.Errorf("bind login log: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&row.ID); err != nil {
		return fmt.Errorf("insert login log: %w", err)
	}
	return nil
}

func (r *LoginLogRepository) List(ctx context.Context, q loginlog.Query) ([]loginlogDatamodel.LoginLog, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if q.Username != "" {
		where += " AND username LIKE ?"
		args = append(args, "%"+q.Username+"%")
	}
	if q.IPAddr != "" {
		where += " AND ipaddr LIKE ?"
		args = append(args, "%"+q.IPAddr+"%")
	}
	if q.Status != "" {
		where += " AND status = ?"
		args = append(args, q.Status)
	}
	if q.StartTime != nil {
		where += " AND login_time >= ?"
		args = append(args, *q.StartTime)
	}
	if q.EndTime != nil {
		where += " AND login_time <= ?"
		args = append(args, *q.EndTime)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) FROM login_log"+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count login logs: %w", err)
	}
	if total == 0 {
		return []loginlogDatamodel.LoginLog{}, 0, nil
	}

	listArgs := append(append([]interface{}{}, args...), q.Limit, q.Offset)
	rows := []loginlogDatamodel.LoginLog{}
	query := r.db.Rebind(selectLoginLog + where + " ORDER BY login_time DESC, id DESC LIMIT ? OFFSET ?")
	if err := r.db.SelectContext(ctx, &rows, query, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list login logs: %w", err)
	}
	return rows, total, nil
}
