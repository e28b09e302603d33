package role_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	"github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/role"
)

// fakeLoader serves fixed roles and counts calls.
type fakeLoader struct {
	roles     map[int64]*roleDatamodel.Role
	userRoles map[int64][]int64
	calls     int
	err       error
}

func (f *fakeLoader) LiveRoleIDsOfUser(_ context.Context, userID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userRoles[userID], nil
}

func (f *fakeLoader) FindWithMenus(_ context.Context, ids []int64) ([]*roleDatamodel.Role, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*roleDatamodel.Role
	for _, id := range ids {
		if r, ok := f.roles[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func menu(id int64, perm string) menuDatamodel.Menu {
	return menuDatamodel.Menu{ID: id, Permission: perm}
}

var _ = Describe("Resolver", func() {
	var (
		loader   *fakeLoader
		resolver *role.Resolver
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		loader = &fakeLoader{roles: map[int64]*roleDatamodel.Role{
			10: {ID: 10, Menus: []menuDatamodel.Menu{menu(1, "sys:view"), menu(2, "")}},
			20: {ID: 20, Menus: []menuDatamodel.Menu{menu(2, ""), menu(3, "sys:edit")}},
		}}
		resolver = role.NewResolver(loader)
	})

	It("unions menus and permissions across roles", func() {
		perms, err := resolver.ResolvePermissions(ctx, []int64{10, 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(ConsistOf("sys:view", "sys:edit"))

		menus, err := resolver.ResolveMenuIDs(ctx, []int64{10, 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(menus).To(ConsistOf(int64(1), int64(2), int64(3)))
	})

	It("deduplicates shared permissions", func() {
		loader.roles[20].Menus = append(loader.roles[20].Menus, menu(4, "sys:view"))

		perms, err := resolver.ResolvePermissions(ctx, []int64{10, 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(HaveLen(2))
	})

	It("is idempotent", func() {
		first, err := resolver.ResolvePermissions(ctx, []int64{20, 10})
		Expect(err).NotTo(HaveOccurred())
		second, err := resolver.ResolvePermissions(ctx, []int64{20, 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(ConsistOf(first))
	})

	It("returns empty sets for no roles without touching the store", func() {
		perms, err := resolver.ResolvePermissions(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(BeEmpty())

		menus, err := resolver.ResolveMenuIDs(ctx, []int64{})
		Expect(err).NotTo(HaveOccurred())
		Expect(menus).To(BeEmpty())
		Expect(loader.calls).To(Equal(0))
	})

	It("ignores unknown role ids", func() {
		perms, err := resolver.ResolvePermissions(ctx, []int64{99})
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(BeEmpty())
	})

	It("propagates store failures", func() {
		loader.err = errors.New("connection refused")
		_, err := resolver.ResolveMenuIDs(ctx, []int64{10})
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})

	Describe("ResolveUserMenuIDs", func() {
		It("follows the roles the user holds now", func() {
			loader.userRoles = map[int64][]int64{7: {10}}
			menus, err := resolver.ResolveUserMenuIDs(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(Equal([]int64{1, 2}))

			loader.userRoles[7] = []int64{20}
			menus, err = resolver.ResolveUserMenuIDs(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(Equal([]int64{2, 3}))
		})

		It("returns nothing for a user without roles", func() {
			menus, err := resolver.ResolveUserMenuIDs(ctx, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(BeEmpty())
			Expect(loader.calls).To(Equal(0))
		})

		It("propagates role lookup failures", func() {
			loader.err = errors.New("connection refused")
			_, err := resolver.ResolveUserMenuIDs(ctx, 7)
			Expect(err).To(MatchError(ContainSubstring("load user roles")))
		})
	})

	Describe("PermissionsForUser", func() {
		It("grants the wildcard to the super admin with any roles", func() {
			for _, roles := range [][]int64{nil, {}, {10}, {10, 20}} {
				perms, err := resolver.PermissionsForUser(ctx, user.SuperAdminID, roles)
				Expect(err).NotTo(HaveOccurred())
				Expect(perms).To(Equal([]string{user.WildcardPermission}))
			}
			Expect(loader.calls).To(Equal(0))
		})

		It("resolves normally for other users", func() {
			perms, err := resolver.PermissionsForUser(ctx, 2, []int64{10})
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(Equal([]string{"sys:view"}))
		})
	})
})
