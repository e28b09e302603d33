package loginlog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	loginlogDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/loginlog"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/geoip"
	"github.com/frahmantamala/rbac-admin/internal/loginlog"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

func TestLoginLog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Login Log Suite")
}

type memoryRepository struct {
	rows      []loginlogDatamodel.LoginLog
	lastQuery loginlog.Query
	err       error
}

func (m *memoryRepository) Insert(_ context.Context, row *loginlogDatamodel.LoginLog) error {
	if m.err != nil {
		return m.err
	}
	row.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *row)
	return nil
}

func (m *memoryRepository) List(_ context.Context, q loginlog.Query) ([]loginlogDatamodel.LoginLog, int64, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, 0, m.err
	}
	out := []loginlogDatamodel.LoginLog{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := m.rows[i]
		if q.Username != "" && !strings.Contains(row.Username, q.Username) {
			continue
		}
		if q.Status != "" && row.Status != q.Status {
			continue
		}
		out = append(out, row)
	}
	total := int64(len(out))
	if q.Offset >= len(out) {
		return []loginlogDatamodel.LoginLog{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[q.Offset:end], total, nil
}

type fixedLocator struct {
	calls []string
}

func (f *fixedLocator) Locate(_ context.Context, ip string) string {
	f.calls = append(f.calls, ip)
	if ip == "8.8.8.8" {
		return "美国"
	}
	return geoip.Unknown
}

var _ = Describe("Recorder", func() {
	var (
		repo     *memoryRepository
		locator  *fixedLocator
		recorder *loginlog.Recorder
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = &memoryRepository{}
		locator = &fixedLocator{}
		recorder = loginlog.NewRecorder(repo, locator)
		ctx = context.Background()
	})

	It("stores a successful attempt with its location", func() {
		client := coreuser.ClientInfo{IP: "8.8.8.8", Browser: "Chrome 120", OS: "Linux"}
		Expect(recorder.Record(ctx, "admin", client, true, "登录成功")).To(Succeed())

		Expect(repo.rows).To(HaveLen(1))
		row := repo.rows[0]
		Expect(row.Username).To(Equal("admin"))
		Expect(row.IPAddr).To(Equal("8.8.8.8"))
		Expect(row.LoginLocation).To(Equal("美国"))
		Expect(row.Status).To(Equal(loginlogDatamodel.StatusSuccess))
		Expect(row.Msg).To(Equal("登录成功"))
		Expect(row.Browser).To(Equal("Chrome 120"))
		Expect(row.LoginTime).To(BeTemporally("~", time.Now(), time.Second))
		Expect(locator.calls).To(Equal([]string{"8.8.8.8"}))
	})

	It("stores a failure as status 0 with an unknown location", func() {
		Expect(recorder.Record(ctx, "ghost", coreuser.ClientInfo{IP: "1.2.3.4"}, false, "用户不存在")).To(Succeed())
		Expect(repo.rows[0].Status).To(Equal(loginlogDatamodel.StatusFailure))
		Expect(repo.rows[0].LoginLocation).To(Equal(geoip.Unknown))
	})

	It("clips long client strings to the column width", func() {
		client := coreuser.ClientInfo{IP: "1.2.3.4", Browser: strings.Repeat("浏", 80)}
		Expect(recorder.Record(ctx, "admin", client, true, "登录成功")).To(Succeed())
		Expect([]rune(repo.rows[0].Browser)).To(HaveLen(50))
	})

	It("clips the address and username so a hostile request still leaves a row", func() {
		client := coreuser.ClientInfo{IP: strings.Repeat("f", 300)}
		Expect(recorder.Record(ctx, strings.Repeat("u", 200), client, false, "用户不存在")).To(Succeed())
		Expect(repo.rows).To(HaveLen(1))
		Expect(repo.rows[0].IPAddr).To(HaveLen(128))
		Expect(repo.rows[0].Username).To(HaveLen(50))
	})

	It("works without a locator", func() {
		r := loginlog.NewRecorder(repo, nil)
		Expect(r.Record(ctx, "admin", coreuser.ClientInfo{IP: "8.8.8.8"}, true, "ok")).To(Succeed())
		Expect(repo.rows[0].LoginLocation).To(Equal(geoip.Unknown))
	})

	It("returns store errors to the caller", func() {
		repo.err = errors.New("db down")
		err := recorder.Record(ctx, "admin", coreuser.ClientInfo{}, true, "ok")
		Expect(err).To(MatchError(ContainSubstring("db down")))
	})
})

var _ = Describe("Service and Handler", func() {
	var (
		repo   *memoryRepository
		svc    *loginlog.Service
		router chi.Router
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &memoryRepository{}
		recorder := loginlog.NewRecorder(repo, &fixedLocator{})
		for i, name := range []string{"admin", "editor", "admin", "admin"} {
			Expect(recorder.Record(ctx, name, coreuser.ClientInfo{IP: "1.1.1.1"}, i%2 == 0, "msg")).To(Succeed())
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc = loginlog.NewService(repo, logger)
		h := loginlog.NewHandler(transport.NewBaseHandler(logger), svc)
		router = chi.NewRouter()
		router.Get("/login-logs", h.List)
	})

	It("pages newest first with the normalized window", func() {
		page, err := svc.List(ctx, loginlog.ListQuery{Username: "admin"})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Pager.Total).To(Equal(int64(3)))
		Expect(page.Pager.PageSize).To(Equal(10))
		Expect(page.Records[0].ID).To(Equal(int64(4)))
		Expect(repo.lastQuery.Offset).To(Equal(0))
		Expect(repo.lastQuery.Limit).To(Equal(10))
	})

	It("rejects an unknown status", func() {
		_, err := svc.List(ctx, loginlog.ListQuery{Status: "9"})
		Expect(err).To(MatchError(loginlog.ErrInvalidStatus))
	})

	It("passes query string filters through", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login-logs?current=2&size=1&status=1&ipaddr=1.1&startTime=2024-05-01", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"code":0`))
		Expect(rec.Body.String()).To(ContainSubstring(`"total":2`))
		Expect(repo.lastQuery.Offset).To(Equal(1))
		Expect(repo.lastQuery.Limit).To(Equal(1))
		Expect(repo.lastQuery.IPAddr).To(Equal("1.1"))
		Expect(repo.lastQuery.StartTime).NotTo(BeNil())
		Expect(repo.lastQuery.StartTime.Day()).To(Equal(1))
	})

	It("maps repository failures to a 500 envelope", func() {
		repo.err = errors.New("boom")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login-logs", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring(`"code":500`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})

	It("answers bad status with a validation envelope", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login-logs?status=x", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring(`"code":400`))
	})
})
