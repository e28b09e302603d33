package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	authPostgres "github.com/frahmantamala/rbac-admin/internal/auth/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/dept"
	deptPostgres "github.com/frahmantamala/rbac-admin/internal/dept/postgres"
	"github.com/frahmantamala/rbac-admin/internal/dict"
	dictPostgres "github.com/frahmantamala/rbac-admin/internal/dict/postgres"
	"github.com/frahmantamala/rbac-admin/internal/geoip"
	"github.com/frahmantamala/rbac-admin/internal/loginlog"
	loginlogPostgres "github.com/frahmantamala/rbac-admin/internal/loginlog/postgres"
	"github.com/frahmantamala/rbac-admin/internal/mailer"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	menuPostgres "github.com/frahmantamala/rbac-admin/internal/menu/postgres"
	"github.com/frahmantamala/rbac-admin/internal/post"
	postPostgres "github.com/frahmantamala/rbac-admin/internal/post/postgres"
	"github.com/frahmantamala/rbac-admin/internal/role"
	rolePostgres "github.com/frahmantamala/rbac-admin/internal/role/postgres"
	"github.com/frahmantamala/rbac-admin/internal/session"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/transport/rest"
	"github.com/frahmantamala/rbac-admin/internal/transport/swagger"
	"github.com/frahmantamala/rbac-admin/internal/user"
	userPostgres "github.com/frahmantamala/rbac-admin/internal/user/postgres"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Redis  *redis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func (d *Dependencies) Close() {
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error("redis close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Close()
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := swagger.LoadDocument(context.Background(), swagger.DefaultDocumentPath); err != nil {
		lg.Warn("openapi document unavailable", "error", err)
	}

	cache := session.NewRedisCache(deps.Redis)
	bus := events.NewEventBus(lg)

	roleRepo := rolePostgres.NewRoleRepository(deps.Gorm)
	resolver := role.NewResolver(roleRepo)
	menu.NewCacheInvalidator(cache, roleRepo, lg).Register(bus)

	recorder := loginlog.NewRecorder(
		loginlogPostgres.NewLoginLogRepository(deps.DB),
		geoip.NewClient(cfg.GeoIP, lg),
	)

	var mail auth.Mailer = mailer.NewLogMailer(lg)
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.Mail, lg)
	}

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(
		authPostgres.NewAuthRepository(deps.Gorm),
		tokens, resolver, cache, recorder, mail,
		auth.Options{
			SessionTTL: cfg.Session.TTL,
			CaptchaTTL: cfg.Session.CaptchaTTL,
			BCryptCost: cfg.Security.BCryptCost,
		},
		lg,
	)

	menuService := menu.NewService(menuPostgres.NewMenuRepository(deps.Gorm), resolver, cache, bus, cfg.Session.TTL, lg)
	roleService := role.NewService(roleRepo, bus, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), bus, user.Options{
		DefaultPassword: cfg.Security.DefaultPassword,
		BCryptCost:      cfg.Security.BCryptCost,
	}, lg)
	deptService := dept.NewService(deptPostgres.NewDeptRepository(deps.Gorm), lg)
	postService := post.NewService(postPostgres.NewPostRepository(deps.Gorm), lg)
	dictService := dict.NewService(dictPostgres.NewDictRepository(deps.Gorm), lg)
	loginLogService := loginlog.NewService(loginlogPostgres.NewLoginLogRepository(deps.DB), lg)

	base := transport.NewBaseHandler(lg)
	rest.RegisterAllRoutes(deps.Router, rest.Dependencies{
		DB:       deps.DB.DB,
		Redis:    deps.Redis,
		Server:   cfg.Server,
		Metrics:  cfg.Observability.Metrics,
		Logger:   lg,
		Auth:     auth.NewHandler(base, authService),
		RBAC:     auth.NewRBACAuthorization(lg),
		Menu:     menu.NewHandler(base, menuService),
		Role:     role.NewHandler(base, roleService),
		User:     user.NewHandler(base, userService),
		Dept:     dept.NewHandler(base, deptService),
		Post:     post.NewHandler(base, postService),
		Dict:     dict.NewHandler(base, dictService),
		LoginLog: loginlog.NewHandler(base, loginLogService),
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, config.Env)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	rdb, err := session.NewRedisClient(config.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gdb,
		Redis:  rdb,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the shared pgx pool used by both sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB, env string) (*gorm.DB, error) {
	level := gormlogger.Warn
	if env != "production" {
		level = gormlogger.Info
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
}
