package auth_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/rbac-admin/internal/auth"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
)

var _ = Describe("JWTTokenGenerator", func() {
	var tokens *auth.JWTTokenGenerator

	BeforeEach(func() {
		tokens = auth.NewJWTTokenGenerator("access", "refresh", time.Minute, time.Hour)
	})

	It("round trips the access claims", func() {
		p := &coreuser.Principal{ID: 7, Username: "u", Roles: []coreuser.RoleRef{{ID: 3, Code: "R"}}, Permissions: []string{"x"}}
		token, err := tokens.GenerateAccessToken(p)
		Expect(err).NotTo(HaveOccurred())

		claims, err := tokens.ValidateAccessToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(7)))
		Expect(claims.Roles).To(Equal(p.Roles))
		Expect(claims.Permissions).To(Equal([]string{"x"}))
		Expect(claims.ExpiresAt.Time).To(BeTemporally("~", time.Now().Add(time.Minute), 5*time.Second))
	})

	It("keeps the two secrets apart", func() {
		refresh, err := tokens.GenerateRefreshToken(7)
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.ValidateAccessToken(refresh)
		Expect(err).To(MatchError(auth.ErrTokenInvalid))

		claims, err := tokens.ValidateRefreshToken(refresh)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(7)))
	})

	It("reports expiry separately", func() {
		short := auth.NewJWTTokenGenerator("access", "refresh", time.Nanosecond, time.Hour)
		token, err := short.GenerateAccessToken(&coreuser.Principal{ID: 1})
		Expect(err).NotTo(HaveOccurred())
		time.Sleep(1100 * time.Millisecond)

		_, err = short.ValidateAccessToken(token)
		Expect(err).To(MatchError(auth.ErrTokenExpired))
	})

	It("rejects garbage", func() {
		_, err := tokens.ValidateAccessToken("not-a-token")
		Expect(err).To(MatchError(auth.ErrTokenInvalid))
	})
})

var _ = Describe("Password hashing", func() {
	It("verifies only the original password", func() {
		hash, err := auth.HashPassword("secret123", 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("secret123"))
		Expect(auth.VerifyPassword(hash, "secret123")).To(Succeed())
		Expect(auth.VerifyPassword(hash, "secret124")).NotTo(Succeed())
	})
})
