package user_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// MockRepository keeps users and their role links in memory.
type MockRepository struct {
	users  map[int64]*userDatamodel.User
	roles  map[int64][]int64
	posts  map[int64][]int64
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:  map[int64]*userDatamodel.User{},
		roles:  map[int64][]int64{},
		posts:  map[int64][]int64{},
		nextID: 1,
	}
}

func (m *MockRepository) withLinks(u *userDatamodel.User) *userDatamodel.User {
	cp := *u
	cp.Roles = nil
	cp.Posts = nil
	for _, id := range m.roles[u.ID] {
		r := roleDatamodel.Role{ID: id}
		r.Stamp("seed")
		cp.Roles = append(cp.Roles, r)
	}
	return &cp
}

func (m *MockRepository) GetByID(_ context.Context, id int64) (*userDatamodel.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return m.withLinks(u), nil
}

func (m *MockRepository) GetByUsername(_ context.Context, username string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return m.withLinks(u), nil
		}
	}
	return nil, nil
}

func (m *MockRepository) FindByIDs(_ context.Context, ids []int64) ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockRepository) List(_ context.Context, q user.Query) ([]*userDatamodel.User, int64, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		if u.ID != coreuser.SuperAdminID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if q.Offset >= len(out) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[q.Offset:end], total, nil
}

func (m *MockRepository) ListByRole(_ context.Context, roleID int64, _, _ int) ([]*userDatamodel.User, int64, error) {
	var out []*userDatamodel.User
	for uid, roles := range m.roles {
		for _, r := range roles {
			if r == roleID {
				out = append(out, m.users[uid])
			}
		}
	}
	return out, int64(len(out)), nil
}

func (m *MockRepository) Save(_ context.Context, u *userDatamodel.User, roleIDs, postIDs []int64) error {
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	cp := *u
	m.users[u.ID] = &cp
	if roleIDs != nil {
		m.roles[u.ID] = roleIDs
	}
	if postIDs != nil {
		m.posts[u.ID] = postIDs
	}
	return nil
}

func (m *MockRepository) SoftDelete(_ context.Context, ids []int64, _ string) error {
	for _, id := range ids {
		delete(m.users, id)
	}
	return nil
}

func (m *MockRepository) UpdateColumns(_ context.Context, id int64, cols map[string]interface{}) error {
	u := m.users[id]
	if v, ok := cols["is_frozen"]; ok {
		u.IsFrozen = v.(string)
	}
	if v, ok := cols["password"]; ok {
		u.Password = v.(string)
	}
	return nil
}

func (m *MockRepository) RemoveRole(_ context.Context, userID, roleID int64) error {
	kept := []int64{}
	for _, r := range m.roles[userID] {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	m.roles[userID] = kept
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) PublishSync(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) last() (string, events.UsersData) {
	Expect(p.events).NotTo(BeEmpty())
	e := p.events[len(p.events)-1]
	return e.EventType(), e.Payload().(events.UsersData)
}

var _ = Describe("User Service", func() {
	var (
		repo      *MockRepository
		publisher *recordingPublisher
		service   *user.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		publisher = &recordingPublisher{}
		service = user.NewService(repo, publisher, user.Options{BCryptCost: 4}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = internal.ContextWithUser(context.Background(), &coreuser.Principal{ID: 1, Username: "admin"})

		admin := &userDatamodel.User{ID: 1, Username: "admin", IsFrozen: userDatamodel.FrozenNormal}
		Expect(repo.Save(ctx, admin, nil, nil)).To(Succeed())
		repo.nextID = 2
	})

	create := func(username string, roles ...int64) *user.Detail {
		d, err := service.Create(ctx, user.SaveUserDTO{Username: username, Nickname: username, RoleIDs: roles})
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	Describe("Create", func() {
		It("creates a back-office user with the default password", func() {
			d := create("alice", 3, 4)
			Expect(d.RoleIDs).To(Equal([]int64{3, 4}))
			Expect(d.PostIDs).To(BeEmpty())
			Expect(d.IsAdmin).To(Equal(userDatamodel.AdminYes))
			Expect(d.IsFrozen).To(Equal(userDatamodel.FrozenNormal))
			Expect(d.Sex).To(Equal(userDatamodel.SexUnknown))

			stored := repo.users[d.ID]
			Expect(stored.CreateBy).To(Equal("admin"))
			Expect(auth.VerifyPassword(stored.Password, user.DefaultPassword)).To(Succeed())
		})

		It("refuses a taken username", func() {
			create("alice")
			_, err := service.Create(ctx, user.SaveUserDTO{Username: "alice"})
			Expect(err).To(MatchError(internal.ErrUsernameTaken))
		})
	})

	Describe("Update", func() {
		It("replaces roles and evicts the user's menu tree", func() {
			d := create("alice", 3)
			updated, err := service.Update(ctx, d.ID, user.SaveUserDTO{Username: "alice", Nickname: "Al", RoleIDs: []int64{5}})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Nickname).To(Equal("Al"))
			Expect(updated.RoleIDs).To(Equal([]int64{5}))

			kind, data := publisher.last()
			Expect(kind).To(Equal(events.UserRolesChanged))
			Expect(data.Users).To(Equal([]events.UserRef{{ID: d.ID, Username: "alice"}}))
		})

		It("keeps roles when none are sent", func() {
			d := create("alice", 3)
			updated, err := service.Update(ctx, d.ID, user.SaveUserDTO{Username: "alice"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.RoleIDs).To(Equal([]int64{3}))
			Expect(publisher.events).To(BeEmpty())
		})

		It("revokes the old session on rename", func() {
			d := create("alice")
			_, err := service.Update(ctx, d.ID, user.SaveUserDTO{Username: "alicia"})
			Expect(err).NotTo(HaveOccurred())

			kind, data := publisher.last()
			Expect(kind).To(Equal(events.SessionRevoked))
			Expect(data.Users[0].Username).To(Equal("alice"))
		})

		It("refuses a rename onto another user", func() {
			create("alice")
			bob := create("bob")
			_, err := service.Update(ctx, bob.ID, user.SaveUserDTO{Username: "alice"})
			Expect(err).To(MatchError(internal.ErrUsernameTaken))
		})

		It("reports a missing user", func() {
			_, err := service.Update(ctx, 99, user.SaveUserDTO{Username: "x"})
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("Delete", func() {
		It("soft deletes and revokes sessions", func() {
			a := create("alice")
			b := create("bob")
			Expect(service.BatchDelete(ctx, user.IDsDTO{IDs: []int64{a.ID, b.ID}})).To(Succeed())
			Expect(repo.users).NotTo(HaveKey(a.ID))

			kind, data := publisher.last()
			Expect(kind).To(Equal(events.SessionRevoked))
			Expect(data.Users).To(HaveLen(2))
		})

		It("protects the super admin", func() {
			Expect(service.Delete(ctx, coreuser.SuperAdminID)).To(MatchError(user.ErrSuperAdminProtected))
			Expect(repo.users).To(HaveKey(coreuser.SuperAdminID))
		})

		It("reports unknown ids", func() {
			Expect(service.Delete(ctx, 42)).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("List", func() {
		It("pages users without the super admin", func() {
			for _, n := range []string{"a", "b", "c"} {
				create(n)
			}
			page, err := service.List(ctx, user.ListQuery{Params: pagination.Params{Current: 2, Size: 2}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Pager.Total).To(Equal(int64(3)))
			Expect(page.Pager.TotalPage).To(Equal(2))
			Expect(page.Records).To(HaveLen(1))
			Expect(page.Records[0].Username).To(Equal("c"))
		})
	})

	Describe("roles", func() {
		It("lists the holders of a role and unlinks one", func() {
			a := create("alice", 7)
			create("bob", 8)

			page, err := service.ListByRole(ctx, 7, pagination.Params{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Records).To(HaveLen(1))
			Expect(page.Records[0].ID).To(Equal(a.ID))

			Expect(service.RemoveRole(ctx, user.RemoveRoleDTO{UserID: a.ID, RoleID: 7})).To(Succeed())
			Expect(repo.roles[a.ID]).To(BeEmpty())
			kind, _ := publisher.last()
			Expect(kind).To(Equal(events.UserRolesChanged))
		})

		It("keeps the super admin's roles", func() {
			err := service.RemoveRole(ctx, user.RemoveRoleDTO{UserID: coreuser.SuperAdminID, RoleID: 1})
			Expect(err).To(MatchError(user.ErrSuperAdminProtected))
		})
	})

	Describe("ChangeStatus", func() {
		It("freezes a user and ends the session", func() {
			d := create("alice")
			Expect(service.ChangeStatus(ctx, user.ChangeStatusDTO{UserID: d.ID, IsFrozen: userDatamodel.FrozenFrozen})).To(Succeed())
			Expect(repo.users[d.ID].Frozen()).To(BeTrue())

			kind, data := publisher.last()
			Expect(kind).To(Equal(events.SessionRevoked))
			Expect(data.Reason).To(Equal("frozen"))
		})

		It("unfreezes without touching the cache", func() {
			d := create("alice")
			Expect(service.ChangeStatus(ctx, user.ChangeStatusDTO{UserID: d.ID, IsFrozen: userDatamodel.FrozenNormal})).To(Succeed())
			Expect(publisher.events).To(BeEmpty())
		})

		It("never freezes the super admin", func() {
			err := service.ChangeStatus(ctx, user.ChangeStatusDTO{UserID: 1, IsFrozen: userDatamodel.FrozenFrozen})
			Expect(err).To(MatchError(user.ErrSuperAdminProtected))
		})
	})

	It("resets the password to the default", func() {
		d := create("alice")
		repo.users[d.ID].Password = "changed"

		Expect(service.ResetPassword(ctx, d.ID)).To(Succeed())
		Expect(auth.VerifyPassword(repo.users[d.ID].Password, user.DefaultPassword)).To(Succeed())
		kind, _ := publisher.last()
		Expect(kind).To(Equal(events.SessionRevoked))
	})
})
