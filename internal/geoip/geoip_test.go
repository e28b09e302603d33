package geoip_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/geoip"
)

func TestGeoIP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "GeoIP Suite")
}

var _ = Describe("Client", func() {
	var (
		server  *httptest.Server
		hits    atomic.Int32
		handler http.HandlerFunc
		ctx     context.Context
		logger  *slog.Logger
	)

	newClient := func(enabled bool, timeout time.Duration) *geoip.Client {
		return geoip.NewClient(internal.GeoIPConfig{Enabled: enabled, URL: server.URL + "/ipJson.jsp", Timeout: timeout}, logger)
	}

	BeforeEach(func() {
		hits.Store(0)
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("decodes the gbk encoded address", func() {
		body, err := simplifiedchinese.GBK.NewEncoder().String(`{"ip":"8.8.8.8","addr":"美国 加利福尼亚州 "}`)
		Expect(err).NotTo(HaveOccurred())

		var got *http.Request
		handler = func(w http.ResponseWriter, r *http.Request) {
			got = r
			w.Header().Set("Content-Type", "application/json; charset=GBK")
			_, _ = io.WriteString(w, body)
		}

		Expect(newClient(true, time.Second).Locate(ctx, "8.8.8.8")).To(Equal("美国 加利福尼亚州"))
		Expect(hits.Load()).To(Equal(int32(1)))
		Expect(got.URL.Path).To(Equal("/ipJson.jsp"))
		Expect(got.URL.Query().Get("ip")).To(Equal("8.8.8.8"))
		Expect(got.URL.Query().Get("json")).To(Equal("true"))
	})

	It("answers unknown when disabled", func() {
		Expect(newClient(false, time.Second).Locate(ctx, "8.8.8.8")).To(Equal(geoip.Unknown))
		Expect(hits.Load()).To(BeZero())
	})

	It("does not look up private or malformed addresses", func() {
		c := newClient(true, time.Second)
		Expect(c.Locate(ctx, "127.0.0.1")).To(Equal(geoip.LocalNetwork))
		Expect(c.Locate(ctx, "192.168.1.20")).To(Equal(geoip.LocalNetwork))
		Expect(c.Locate(ctx, "::1")).To(Equal(geoip.LocalNetwork))
		Expect(c.Locate(ctx, "not-an-ip")).To(Equal(geoip.Unknown))
		Expect(hits.Load()).To(BeZero())
	})

	DescribeTable("falls back to unknown on bad responses",
		func(h http.HandlerFunc) {
			handler = h
			Expect(newClient(true, time.Second).Locate(ctx, "1.1.1.1")).To(Equal(geoip.Unknown))
		},
		Entry("server error", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})),
		Entry("malformed json", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		})),
		Entry("empty addr", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"ip":"1.1.1.1","addr":""}`)
		})),
	)

	It("gives up when the service is slow", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = io.WriteString(w, `{"addr":"late"}`)
		}
		Expect(newClient(true, 20*time.Millisecond).Locate(ctx, "1.1.1.1")).To(Equal(geoip.Unknown))
	})

	It("stops calling the service once the breaker opens", func() {
		c := newClient(true, time.Second)
		for i := 0; i < 8; i++ {
			Expect(c.Locate(ctx, "1.1.1.1")).To(Equal(geoip.Unknown))
		}
		Expect(hits.Load()).To(Equal(int32(5)))
	})
})
