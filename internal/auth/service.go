package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/metrics"
	"github.com/frahmantamala/rbac-admin/internal/session"
)

const (
	msgLoginSuccess  = "登录成功"
	msgLogout        = "退出登录"
	msgLogoutNoUser  = "退出登录失败,用户不存在"
	msgLogoutFailed  = "退出登录失败"
	msgLoginFailed   = "登录失败"
	msgCaptchaExpire = "验证码已过期"
	msgCaptchaWrong  = "验证码错误"
)

var (
	ErrCaptchaExpired = internal.NewBusinessError(msgCaptchaExpire)
	ErrCaptchaWrong   = internal.NewBusinessError(msgCaptchaWrong)
)

type Options struct {
	SessionTTL time.Duration
	CaptchaTTL time.Duration
	BCryptCost int
}

type Service struct {
	repo     RepositoryAPI
	tokens   TokenGenerator
	resolver PermissionResolver
	cache    session.Cache
	recorder LoginRecorder
	mailer   Mailer
	opts     Options
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, resolver PermissionResolver, cache session.Cache, recorder LoginRecorder, mailer Mailer, opts Options, logger *slog.Logger) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.CaptchaTTL <= 0 {
		opts.CaptchaTTL = 5 * time.Minute
	}
	return &Service{
		repo:     repo,
		tokens:   tokens,
		resolver: resolver,
		cache:    cache,
		recorder: recorder,
		mailer:   mailer,
		opts:     opts,
		logger:   logger,
	}
}

// Login authenticates a back-office user. Every outcome writes exactly one
// login log row; only success touches the session cache.
func (s *Service) Login(ctx context.Context, dto LoginDTO, client coreuser.ClientInfo) (*TokenPair, error) {
	u, err := s.repo.FindAdminByUsername(ctx, dto.Username)
	if err != nil {
		s.record(ctx, dto.Username, client, false, msgLoginFailed)
		metrics.RecordLogin("error")
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		s.record(ctx, dto.Username, client, false, internal.ErrUserNotFound.Message)
		metrics.RecordLogin("not_found")
		return nil, internal.ErrUserNotFound
	}
	if err := VerifyPassword(u.Password, dto.Password); err != nil {
		s.record(ctx, u.Username, client, false, internal.ErrInvalidCredentials.Message)
		metrics.RecordLogin("bad_password")
		return nil, internal.ErrInvalidCredentials
	}
	if u.Frozen() {
		s.record(ctx, u.Username, client, false, internal.ErrUserFrozen.Message)
		metrics.RecordLogin("frozen")
		return nil, internal.ErrUserFrozen
	}

	pair, err := s.startSession(ctx, u, client)
	if err != nil {
		s.record(ctx, u.Username, client, false, msgLoginFailed)
		metrics.RecordLogin("error")
		return nil, err
	}

	s.record(ctx, u.Username, client, true, msgLoginSuccess)
	metrics.RecordLogin("success")
	s.logger.Info("user logged in", "user_id", u.ID, "ip", client.IP)
	return pair, nil
}

// startSession resolves permissions, issues a token pair and writes the
// session payload.
func (s *Service) startSession(ctx context.Context, u *userDatamodel.User, client coreuser.ClientInfo) (*TokenPair, error) {
	perms, err := s.resolver.PermissionsForUser(ctx, u.ID, roleIDs(u))
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}
	info := newUserInfo(u, perms)

	pair, err := s.issue(info)
	if err != nil {
		return nil, err
	}

	payload := SessionPayload{
		UserInfo:     *info,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Client:       client,
		LoginTime:    time.Now(),
	}
	if err := s.cache.Set(ctx, session.UserInfoKey(u.Username, u.ID), payload, s.opts.SessionTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return pair, nil
}

func (s *Service) issue(info *UserInfo) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(info.Principal())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(info.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshToken trades a valid refresh token for a new pair carrying the
// user's current permissions, and renews the session entry.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidToken
	}
	if u.Frozen() {
		return nil, internal.ErrUserFrozen
	}

	// A logged out or revoked session cannot be revived by its refresh token.
	var previous SessionPayload
	key := session.UserInfoKey(u.Username, u.ID)
	found, err := s.cache.Get(ctx, key, &previous)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !found {
		return nil, internal.ErrInvalidToken
	}
	return s.startSession(ctx, u, previous.Client)
}

// Logout drops the session and menu cache entries of the user.
func (s *Service) Logout(ctx context.Context, userID int64, client coreuser.ClientInfo) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.record(ctx, "", client, false, msgLogoutFailed)
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		s.record(ctx, "", client, false, msgLogoutNoUser)
		return internal.ErrUserNotFound
	}

	keys := []string{session.UserInfoKey(u.Username, u.ID), session.UserMenuKey(u.Username, u.ID)}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.record(ctx, u.Username, client, false, msgLogoutFailed)
		return fmt.Errorf("drop session: %w", err)
	}

	s.record(ctx, u.Username, client, true, msgLogout)
	metrics.RecordLogin("logout")
	metrics.RecordMenuInvalidation("logout", 1)
	return nil
}

// FindUserByID returns the user with roles and resolved permissions.
func (s *Service) FindUserByID(ctx context.Context, id int64) (*UserInfo, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	perms, err := s.resolver.PermissionsForUser(ctx, u.ID, roleIDs(u))
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}
	return newUserInfo(u, perms), nil
}

func (s *Service) Permissions(ctx context.Context, p *coreuser.Principal) ([]string, error) {
	return s.resolver.PermissionsForUser(ctx, p.ID, p.RoleIDs())
}

// Authenticate verifies an access token and requires its session to still be
// cached, so logout revokes outstanding access tokens.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*coreuser.Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	var payload SessionPayload
	found, err := s.cache.Get(ctx, session.UserInfoKey(claims.Username, claims.UserID), &payload)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !found {
		return nil, internal.ErrInvalidToken
	}

	return &coreuser.Principal{
		ID:          claims.UserID,
		Username:    claims.Username,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
	}, nil
}

func captchaKey(purpose, email string) string {
	switch purpose {
	case CaptchaUpdatePassword:
		return session.PurposeCaptchaKey("update_password", email)
	case CaptchaUpdateInfo:
		return session.PurposeCaptchaKey("update_info", email)
	default:
		return session.CaptchaKey(email)
	}
}

var captchaSubjects = map[string]string{
	CaptchaRegister:       "注册验证码",
	CaptchaUpdatePassword: "修改密码验证码",
	CaptchaUpdateInfo:     "更新信息验证码",
}

// SendCaptcha stores a six digit code for the purpose and mails it.
func (s *Service) SendCaptcha(ctx context.Context, dto CaptchaDTO) error {
	subject, ok := captchaSubjects[dto.Type]
	if !ok {
		return internal.NewValidationError("验证码类型错误")
	}

	code, err := newCaptcha()
	if err != nil {
		return fmt.Errorf("generate captcha: %w", err)
	}
	if err := s.cache.Set(ctx, captchaKey(dto.Type, dto.Email), code, s.opts.CaptchaTTL); err != nil {
		return fmt.Errorf("store captcha: %w", err)
	}

	body := fmt.Sprintf("<p>您的验证码是：<strong>%s</strong> </p>", code)
	if err := s.mailer.Send(ctx, dto.Email, subject, body); err != nil {
		return fmt.Errorf("send captcha: %w", err)
	}
	return nil
}

func newCaptcha() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *Service) checkCaptcha(ctx context.Context, key, given string) error {
	var stored string
	found, err := s.cache.Get(ctx, key, &stored)
	if err != nil {
		return fmt.Errorf("read captcha: %w", err)
	}
	if !found {
		return ErrCaptchaExpired
	}
	if stored != given {
		return ErrCaptchaWrong
	}
	return nil
}

// Register creates a regular (non back-office) user after a captcha check.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*UserInfo, error) {
	key := captchaKey(CaptchaRegister, dto.Email)
	if err := s.checkCaptcha(ctx, key, dto.Captcha); err != nil {
		return nil, err
	}

	exists, err := s.repo.UsernameExists(ctx, dto.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := HashPassword(dto.Password, s.opts.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &userDatamodel.User{
		Username: dto.Username,
		Nickname: dto.Nickname,
		Email:    dto.Email,
		Password: hash,
		IsFrozen: userDatamodel.FrozenNormal,
		IsAdmin:  userDatamodel.AdminNo,
		Sex:      userDatamodel.SexUnknown,
	}
	u.Stamp(dto.Username)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to drop used captcha", "email", dto.Email, "error", err)
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return newUserInfo(u, []string{}), nil
}

// UpdatePassword changes the caller's password after a captcha sent to the
// account email.
func (s *Service) UpdatePassword(ctx context.Context, p *coreuser.Principal, dto UpdatePasswordDTO) error {
	u, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return internal.ErrUserNotFound
	}
	if u.Email != dto.Email {
		return internal.NewValidationError("邮箱与账号不匹配")
	}

	key := captchaKey(CaptchaUpdatePassword, dto.Email)
	if err := s.checkCaptcha(ctx, key, dto.Captcha); err != nil {
		return err
	}

	hash, err := HashPassword(dto.Password, s.opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash, u.Username); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to drop used captcha", "email", dto.Email, "error", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, username string, client coreuser.ClientInfo, success bool, msg string) {
	if err := s.recorder.Record(ctx, username, client, success, msg); err != nil {
		s.logger.Error("failed to write login log", "username", username, "msg", msg, "error", err)
	}
}
