package cmd

import (
	"context"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/rbac-admin/internal/auth"
	deptDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dept"
	dictDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dict"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	postDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/post"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
)

var _ = Describe("seedDatabase", func() {
	var (
		db   *gorm.DB
		ctx  context.Context
		lg   *slog.Logger
		opts seedOptions
	)

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&menuDatamodel.Menu{},
			&roleDatamodel.Role{},
			&roleDatamodel.RoleMenu{},
			&postDatamodel.Post{},
			&deptDatamodel.Dept{},
			&userDatamodel.User{},
			&userDatamodel.UserRole{},
			&userDatamodel.UserPost{},
			&dictDatamodel.Dict{},
			&dictDatamodel.DictData{},
		)).To(Succeed())

		ctx = context.Background()
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
		opts = seedOptions{AdminPassword: "s3cret", BCryptCost: 4}
	})

	It("creates the admin with the super admin role", func() {
		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())

		var admin userDatamodel.User
		Expect(db.Preload("Roles").First(&admin, adminUserID).Error).To(Succeed())
		Expect(admin.Username).To(Equal(adminUsername))
		Expect(admin.IsAdmin).To(Equal(userDatamodel.AdminYes))
		Expect(admin.DeptID).NotTo(BeNil())
		Expect(auth.VerifyPassword(admin.Password, "s3cret")).To(Succeed())
		Expect(admin.Roles).To(HaveLen(1))
		Expect(admin.Roles[0].RoleCode).To(Equal(roleDatamodel.SuperAdminCode))
	})

	It("grants every seeded menu to the super admin role", func() {
		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())

		var perms []string
		Expect(db.Model(&menuDatamodel.Menu{}).Where("permission <> ''").Pluck("permission", &perms).Error).To(Succeed())
		Expect(perms).To(ContainElements(
			"system:user:list", "system:user:resetPwd", "system:role:edit",
			"system:menu:delete", "system:dept:query", "system:post:add",
			"system:dict:list", "monitor:loginlog:list",
		))
		Expect(count(&roleDatamodel.RoleMenu{})).To(Equal(count(&menuDatamodel.Menu{})))

		var buttonParents []int64
		Expect(db.Model(&menuDatamodel.Menu{}).Where("menu_type = ?", menuDatamodel.TypeButton).Distinct().Pluck("parent_menu_id", &buttonParents).Error).To(Succeed())
		var pages int64
		Expect(db.Model(&menuDatamodel.Menu{}).Where("id IN ? AND menu_type = ?", buttonParents, menuDatamodel.TypePage).Count(&pages).Error).To(Succeed())
		Expect(pages).To(Equal(int64(len(buttonParents))))
	})

	It("can run twice without duplicating rows", func() {
		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())
		menus, dicts, data, posts := count(&menuDatamodel.Menu{}), count(&dictDatamodel.Dict{}), count(&dictDatamodel.DictData{}), count(&postDatamodel.Post{})

		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())
		Expect(count(&menuDatamodel.Menu{})).To(Equal(menus))
		Expect(count(&dictDatamodel.Dict{})).To(Equal(dicts))
		Expect(count(&dictDatamodel.DictData{})).To(Equal(data))
		Expect(count(&postDatamodel.Post{})).To(Equal(posts))
		Expect(count(&userDatamodel.User{})).To(Equal(int64(1)))
		Expect(count(&userDatamodel.UserRole{})).To(Equal(int64(1)))
		Expect(count(&deptDatamodel.Dept{})).To(Equal(int64(1)))
	})

	It("wipes extra rows when clearing", func() {
		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())
		extra := postDatamodel.Post{Name: "temp", Code: "temp"}
		extra.Stamp("tester")
		Expect(db.Create(&extra).Error).To(Succeed())

		opts.Clear = true
		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())
		Expect(count(&postDatamodel.Post{})).To(Equal(int64(len(seedPosts))))
	})

	It("falls back to the stock admin password", func() {
		opts.AdminPassword = ""
		Expect(seedDatabase(ctx, db, opts, lg)).To(Succeed())

		var admin userDatamodel.User
		Expect(db.First(&admin, adminUserID).Error).To(Succeed())
		Expect(auth.VerifyPassword(admin.Password, "123456")).To(Succeed())
	})
})
