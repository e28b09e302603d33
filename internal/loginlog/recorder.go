package loginlog

import (
	"context"
	"fmt"
	"time"

	loginlogDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/loginlog"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/geoip"
)

// Recorder appends one row per login or logout attempt. A failed location
// lookup still records the row.
type Recorder struct {
	repo    RepositoryAPI
	locator geoip.Locator
	now     func() time.Time
}

func NewRecorder(repo RepositoryAPI, locator geoip.Locator) *Recorder {
	return &Recorder{repo: repo, locator: locator, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, username string, client coreuser.ClientInfo, success bool, msg string) error {
	status := loginlogDatamodel.StatusFailure
	if success {
		status = loginlogDatamodel.StatusSuccess
	}

	location := geoip.Unknown
	if r.locator != nil {
		location = r.locator.Locate(ctx, client.IP)
	}

	row := &loginlogDatamodel.LoginLog{
		Username:      truncate(username, 50),
		IPAddr:        truncate(client.IP, 128),
		LoginLocation: location,
		LoginTime:     r.now(),
		Browser:       truncate(client.Browser, 50),
		OS:            truncate(client.OS, 50),
		Status:        status,
		Msg:           truncate(msg, 255),
	}
	if err := r.repo.Insert(ctx, row); err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}

// truncate keeps values inside their column widths without splitting runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
