package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	menuPostgres "github.com/frahmantamala/rbac-admin/internal/menu/postgres"
)

func TestMenuPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Menu Postgres Suite")
}

var _ = Describe("Menu PostgreSQL Repository", func() {
	var (
		repo menu.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&menuDatamodel.Menu{})).To(Succeed())

		ctx = context.Background()
		repo = menuPostgres.NewMenuRepository(db)

		for _, m := range []menuDatamodel.Menu{
			{Name: "system", ParentMenuID: -1, SortOrder: 2, MenuType: menuDatamodel.TypeDirectory},
			{Name: "monitor", ParentMenuID: -1, SortOrder: 1, MenuType: menuDatamodel.TypeDirectory},
			{Name: "user", ParentMenuID: 1, SortOrder: 1, MenuType: menuDatamodel.TypePage},
			{Name: "user add", ParentMenuID: 3, SortOrder: 1, MenuType: menuDatamodel.TypeButton, Permission: "system:user:add"},
		} {
			m.Stamp("seed")
			Expect(repo.Create(ctx, &m)).To(Succeed())
		}
	})

	It("loads navigable menus in sort order without buttons", func() {
		rows, err := repo.FindNavigable(ctx, []int64{1, 2, 3, 4})
		Expect(err).NotTo(HaveOccurred())

		var names []string
		for _, r := range rows {
			names = append(names, r.Name)
		}
		Expect(names).To(Equal([]string{"monitor", "user", "system"}))
	})

	It("skips soft deleted rows everywhere", func() {
		Expect(repo.SoftDelete(ctx, 2, "tester")).To(Succeed())

		rows, err := repo.FindNavigable(ctx, []int64{1, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))

		m, err := repo.GetByID(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(BeNil())
	})

	It("counts live children", func() {
		n, err := repo.CountChildren(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))

		Expect(repo.SoftDelete(ctx, 3, "tester")).To(Succeed())
		n, err = repo.CountChildren(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("filters the admin listing by name", func() {
		rows, err := repo.FindAll(ctx, "user")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
	})

	It("saves updates", func() {
		m, err := repo.GetByID(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		m.Name = "members"
		Expect(repo.Update(ctx, m)).To(Succeed())

		m, err = repo.GetByID(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name).To(Equal("members"))
	})
})
