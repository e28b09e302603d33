package loginlog

import "time"

const (
	StatusFailure = "0"
	StatusSuccess = "1"
)

// LoginLog is append-only; it has no audit columns.
type LoginLog struct {
	ID            int64     `db:"id" gorm:"column:id;primaryKey"`
	Username      string    `db:"username" gorm:"column:username;size:50"`
	IPAddr        string    `db:"ipaddr" gorm:"column:ipaddr;size:128"`
	LoginLocation string    `db:"login_location" gorm:"column:login_location;size:255"`
	LoginTime     time.Time `db:"login_time" gorm:"column:login_time"`
	Browser       string    `db:"browser" gorm:"column:browser;size:50"`
	OS            string    `db:"os" gorm:"column:os;size:50"`
	Status        string    `db:"status" gorm:"column:status;type:char(1)"`
	Msg           string    `db:"msg" gorm:"column:msg;size:255"`
}

func (LoginLog) TableName() string {
	return "login_log"
}
