package user_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/rbac-admin/internal/core/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Core User Suite")
}

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var _ = Describe("ClientFromRequest", func() {
	It("parses browser and os from the user agent", func() {
		r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		r.Header.Set("User-Agent", chromeOnMac)

		c := user.ClientFromRequest(r)
		Expect(c.Browser).To(HavePrefix("Chrome"))
		Expect(c.OS).To(ContainSubstring("Mac OS X"))
		Expect(c.UserAgent).To(Equal(chromeOnMac))
		Expect(c.IP).To(Equal("192.0.2.1"))
	})

	It("prefers the first forwarded address", func() {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		r.Header.Set("X-Real-IP", "10.0.0.2")
		Expect(user.ClientFromRequest(r).IP).To(Equal("203.0.113.9"))
	})

	It("skips forwarded values that are not addresses", func() {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Forwarded-For", strings.Repeat("a", 300)+", 10.0.0.1")
		r.Header.Set("X-Real-IP", "<script>")
		Expect(user.ClientFromRequest(r).IP).To(Equal("192.0.2.1"))
	})

	It("accepts a bare remote address rewritten by a proxy middleware", func() {
		r := httptest.NewRequest("POST", "/", nil)
		r.RemoteAddr = "2001:db8::1"
		Expect(user.ClientFromRequest(r).IP).To(Equal("2001:db8::1"))

		r.RemoteAddr = "not-an-ip"
		Expect(user.ClientFromRequest(r).IP).To(BeEmpty())
	})

	It("falls back to X-Real-IP", func() {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Real-IP", "10.0.0.2")
		Expect(user.ClientFromRequest(r).IP).To(Equal("10.0.0.2"))
	})
})

var _ = Describe("Principal", func() {
	It("knows the super admin and its role ids", func() {
		p := &user.Principal{ID: user.SuperAdminID, Roles: []user.RoleRef{{ID: 3}, {ID: 5}}}
		Expect(p.IsSuperAdmin()).To(BeTrue())
		Expect(p.RoleIDs()).To(Equal([]int64{3, 5}))
		Expect((&user.Principal{ID: 2}).IsSuperAdmin()).To(BeFalse())
	})
})
