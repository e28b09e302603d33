package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	loginlogDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/loginlog"
	"github.com/frahmantamala/rbac-admin/internal/loginlog"
	"github.com/frahmantamala/rbac-admin/internal/loginlog/postgres"
)

func TestLoginLogPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Login Log Postgres Suite")
}

var columns = []string{"id", "username", "ipaddr", "login_location", "login_time", "browser", "os", "status", "msg"}

var _ = Describe("LoginLogRepository", func() {
	var (
		mock sqlmock.Sqlmock
		repo loginlog.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		db, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mock = m
		repo = postgres.NewLoginLogRepository(sqlx.NewDb(db, "pgx"))
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	Describe("Insert", func() {
		It("writes the row and keeps the generated id", func() {
			at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
			mock.ExpectQuery(`INSERT INTO login_log \(username, ipaddr, login_location, login_time, browser, os, status, msg\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\) RETURNING id`).
				WithArgs("admin", "8.8.8.8", "美国", at, "Chrome 120", "Linux", "1", "登录成功").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

			row := &loginlogDatamodel.LoginLog{
				Username: "admin", IPAddr: "8.8.8.8", LoginLocation: "美国", LoginTime: at,
				Browser: "Chrome 120", OS: "Linux", Status: "1", Msg: "登录成功",
			}
			Expect(repo.Insert(ctx, row)).To(Succeed())
			Expect(row.ID).To(Equal(int64(42)))
		})

		It("wraps driver failures", func() {
			mock.ExpectQuery("INSERT INTO login_log").WillReturnError(errors.New("connection reset"))

			err := repo.Insert(ctx, &loginlogDatamodel.LoginLog{Username: "admin"})
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
		})
	})

	Describe("List", func() {
		It("filters, counts and pages newest first", func() {
			from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_log WHERE 1=1 AND username LIKE \$1 AND status = \$2 AND login_time >= \$3`).
				WithArgs("%adm%", "0", from).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
			mock.ExpectQuery(`SELECT id, username, ipaddr, login_location, login_time, browser, os, status, msg FROM login_log WHERE 1=1 AND username LIKE \$1 AND status = \$2 AND login_time >= \$3 ORDER BY login_time DESC, id DESC LIMIT \$4 OFFSET \$5`).
				WithArgs("%adm%", "0", from, 2, 2).
				WillReturnRows(sqlmock.NewRows(columns).
					AddRow(7, "admin", "1.1.1.1", "未知", from.Add(time.Hour), "Firefox", "Windows", "0", "密码错误"))

			rows, total, err := repo.List(ctx, loginlog.Query{Username: "adm", Status: "0", StartTime: &from, Offset: 2, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).To(Equal(int64(7)))
			Expect(rows[0].LoginLocation).To(Equal("未知"))
			Expect(rows[0].Msg).To(Equal("密码错误"))
		})

		It("skips the page query when nothing matches", func() {
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_log WHERE 1=1 AND ipaddr LIKE \$1`).
				WithArgs("%10.0%").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

			rows, total, err := repo.List(ctx, loginlog.Query{IPAddr: "10.0", Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())
			Expect(rows).NotTo(BeNil())
			Expect(rows).To(BeEmpty())
		})
	})
})
