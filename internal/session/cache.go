// Package session stores per-user login payloads, menu trees and captchas
// in a TTL key-value store.
package session

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	userInfoPrefix = "userinfo:"
	userMenuPrefix = "usermenu:"
	captchaPrefix  = "captcha:"

	// UserMenuPattern matches every cached menu tree.
	UserMenuPattern = userMenuPrefix + "*"
)

// ErrUnavailable wraps every failure of the backing store so callers can tell
// an outage apart from a miss.
var ErrUnavailable = errors.New("session cache unavailable")

// Cache is a TTL key-value store. Get reports a miss as (false, nil).
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// identity hides raw ids and usernames from key names.
func identity(username string, userID int64) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d", username, userID)))
	return hex.EncodeToString(sum[:])
}

func UserInfoKey(username string, userID int64) string {
	return userInfoPrefix + identity(username, userID)
}

func UserMenuKey(username string, userID int64) string {
	return userMenuPrefix + identity(username, userID)
}

func CaptchaKey(email string) string {
	return captchaPrefix + email
}

// PurposeCaptchaKey scopes a captcha to a flow other than registration, e.g.
// "update_password".
func PurposeCaptchaKey(purpose, email string) string {
	return captchaPrefix + purpose + ":" + email
}
