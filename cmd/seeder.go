package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel"
	deptDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dept"
	dictDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dict"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	postDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/post"
	roleDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/core/tree"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

const (
	seedActor     = "system"
	adminUserID   = int64(1)
	adminUsername = "admin"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the admin account and base data",
	Long:  `Seed the admin user, the super admin role, the system menu tree, dictionaries, the root department and default posts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := initGorm(db, cfg.Env)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		opts := seedOptions{
			AdminPassword: cfg.Security.DefaultPassword,
			BCryptCost:    cfg.Security.BCryptCost,
			Clear:         clearData,
		}
		return seedDatabase(cmd.Context(), gdb, opts, lg)
	},
}

type seedOptions struct {
	AdminPassword string
	BCryptCost    int
	Clear         bool
}

type seedMenu struct {
	Name       string
	EnName     string
	Path       string
	Component  string
	Icon       string
	Permission string
	Type       int
	Children   []seedMenu
}

// crudPage is a page guarded by <prefix>:list with the standard buttons below it.
func crudPage(name, enName, path, component, icon, prefix string, extra ...seedMenu) seedMenu {
	buttons := []seedMenu{
		{Name: "查询", EnName: "Query", Permission: prefix + ":query", Type: menuDatamodel.TypeButton},
		{Name: "新增", EnName: "Add", Permission: prefix + ":add", Type: menuDatamodel.TypeButton},
		{Name: "修改", EnName: "Edit", Permission: prefix + ":edit", Type: menuDatamodel.TypeButton},
		{Name: "删除", EnName: "Delete", Permission: prefix + ":delete", Type: menuDatamodel.TypeButton},
	}
	return seedMenu{
		Name:       name,
		EnName:     enName,
		Path:       path,
		Component:  component,
		Icon:       icon,
		Permission: prefix + ":list",
		Type:       menuDatamodel.TypePage,
		Children:   append(buttons, extra...),
	}
}

var seedMenus = []seedMenu{
	{
		Name: "系统管理", EnName: "System", Path: "/system", Icon: "setting", Type: menuDatamodel.TypeDirectory,
		Children: []seedMenu{
			crudPage("用户管理", "User", "/system/user", "system/user/index", "user", "system:user",
				seedMenu{Name: "重置密码", EnName: "Reset Password", Permission: "system:user:resetPwd", Type: menuDatamodel.TypeButton}),
			crudPage("角色管理", "Role", "/system/role", "system/role/index", "peoples", "system:role"),
			crudPage("菜单管理", "Menu", "/system/menu", "system/menu/index", "tree-table", "system:menu"),
			crudPage("部门管理", "Dept", "/system/dept", "system/dept/index", "tree", "system:dept"),
			crudPage("岗位管理", "Post", "/system/post", "system/post/index", "post", "system:post"),
			crudPage("字典管理", "Dict", "/system/dict", "system/dict/index", "dict", "system:dict"),
		},
	},
	{
		Name: "系统监控", EnName: "Monitor", Path: "/monitor", Icon: "monitor", Type: menuDatamodel.TypeDirectory,
		Children: []seedMenu{
			{Name: "登录日志", EnName: "Login Log", Path: "/monitor/loginlog", Component: "monitor/loginlog/index", Icon: "logininfor", Permission: "monitor:loginlog:list", Type: menuDatamodel.TypePage},
		},
	},
}

type seedDict struct {
	Name   string
	Code   string
	Desc   string
	Values [][2]string
}

var seedDicts = []seedDict{
	{Name: "用户性别", Code: "sys_user_sex", Desc: "用户性别列表", Values: [][2]string{{"1", "男"}, {"2", "女"}, {"3", "未知"}}},
	{Name: "用户状态", Code: "sys_user_status", Desc: "用户冻结状态", Values: [][2]string{{userDatamodel.FrozenNormal, "正常"}, {userDatamodel.FrozenFrozen, "冻结"}}},
	{Name: "启用状态", Code: "sys_normal_disable", Desc: "启用停用状态", Values: [][2]string{{"1", "启用"}, {"0", "停用"}}},
	{Name: "菜单类型", Code: "sys_menu_type", Desc: "菜单类型列表", Values: [][2]string{{"0", "目录"}, {"1", "菜单"}, {"2", "按钮"}}},
	{Name: "部门类型", Code: "sys_dept_type", Desc: "部门类型列表", Values: [][2]string{{deptDatamodel.TypeCompany, "公司"}, {deptDatamodel.TypeDept, "部门"}, {deptDatamodel.TypeGroup, "小组"}}},
}

var seedPosts = []postDatamodel.Post{
	{Name: "董事长", Code: "ceo", SortOrder: 1},
	{Name: "项目经理", Code: "se", SortOrder: 2},
	{Name: "人力资源", Code: "hr", SortOrder: 3},
	{Name: "普通员工", Code: "user", SortOrder: 4},
}

// seedDatabase is idempotent: rows are matched on their natural keys and only
// missing ones are inserted.
func seedDatabase(ctx context.Context, db *gorm.DB, opts seedOptions, lg *slog.Logger) error {
	password := opts.AdminPassword
	if password == "" {
		password = "123456"
	}
	hash, err := auth.HashPassword(password, opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clear {
			if err := clearSeedTables(tx); err != nil {
				return err
			}
			lg.Info("cleared existing data")
		}

		deptID, err := seedRootDept(tx)
		if err != nil {
			return err
		}
		lg.Info("seeded root department", "dept_id", deptID)

		for i := range seedPosts {
			p := seedPosts[i]
			p.Status = datamodel.StatusEnable
			p.Stamp(seedActor)
			if err := tx.Scopes(datamodel.Live).Where("code = ?", p.Code).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed post %s: %w", p.Code, err)
			}
		}
		lg.Info("seeded posts", "count", len(seedPosts))

		var menuIDs []int64
		for _, m := range seedMenus {
			ids, err := seedMenuTree(tx, tree.RootID, m)
			if err != nil {
				return err
			}
			menuIDs = append(menuIDs, ids...)
		}
		lg.Info("seeded menus", "count", len(menuIDs))

		role := roleDatamodel.Role{
			Name:        "超级管理员",
			RoleCode:    roleDatamodel.SuperAdminCode,
			Description: "拥有全部权限",
			IsEnable:    datamodel.StatusEnable,
		}
		role.Stamp(seedActor)
		if err := tx.Scopes(datamodel.Live).Where("role_code = ?", role.RoleCode).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed super admin role: %w", err)
		}
		for _, id := range menuIDs {
			link := roleDatamodel.RoleMenu{RoleID: role.ID, MenuID: id}
			if err := tx.Where(&link).FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("grant menu %d: %w", id, err)
			}
		}

		if err := seedAdmin(tx, hash, deptID, role.ID); err != nil {
			return err
		}
		lg.Info("seeded admin user", "username", adminUsername, "role", role.RoleCode)

		for _, d := range seedDicts {
			if err := seedDictionary(tx, d); err != nil {
				return err
			}
		}
		lg.Info("seeded dictionaries", "count", len(seedDicts))
		return nil
	})
}

func clearSeedTables(tx *gorm.DB) error {
	tables := []string{"user_roles", "user_posts", "role_menus", "dict_data", "dict", "users", "roles", "menu", "post", "dept"}
	for _, t := range tables {
		if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

func seedRootDept(tx *gorm.DB) (int64, error) {
	d := deptDatamodel.Dept{
		DeptName: "总公司",
		DeptCode: "HQ",
		FullName: "总公司",
		ParentID: tree.RootID,
		DeptType: deptDatamodel.TypeCompany,
		Status:   datamodel.StatusEnable,
	}
	d.Stamp(seedActor)
	if err := tx.Scopes(datamodel.Live).Where("dept_code = ? AND parent_id = ?", d.DeptCode, tree.RootID).FirstOrCreate(&d).Error; err != nil {
		return 0, fmt.Errorf("seed root dept: %w", err)
	}
	return d.ID, nil
}

// seedMenuTree returns the ids of m and all of its descendants.
func seedMenuTree(tx *gorm.DB, parentID int64, m seedMenu) ([]int64, error) {
	row := menuDatamodel.Menu{
		Name:         m.Name,
		EnName:       m.EnName,
		Permission:   m.Permission,
		Path:         m.Path,
		ParentMenuID: parentID,
		Icon:         m.Icon,
		Visible:      "0",
		KeepAlive:    "0",
		Embedded:     "0",
		IsIframe:     "0",
		MenuType:     m.Type,
		Component:    m.Component,
	}
	row.Stamp(seedActor)
	if err := tx.Scopes(datamodel.Live).Where("parent_menu_id = ? AND name = ?", parentID, m.Name).FirstOrCreate(&row).Error; err != nil {
		return nil, fmt.Errorf("seed menu %s: %w", m.Name, err)
	}

	ids := []int64{row.ID}
	for i, child := range m.Children {
		if child.Type != menuDatamodel.TypeButton && child.Path == "" {
			return nil, fmt.Errorf("seed menu %s: child %d has no path", m.Name, i)
		}
		childIDs, err := seedMenuTree(tx, row.ID, child)
		if err != nil {
			return nil, err
		}
		ids = append(ids, childIDs...)
	}
	return ids, nil
}

func seedAdmin(tx *gorm.DB, passwordHash string, deptID, roleID int64) error {
	var admin userDatamodel.User
	err := tx.First(&admin, adminUserID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = userDatamodel.User{
			ID:       adminUserID,
			Username: adminUsername,
			Password: passwordHash,
			Nickname: "超级管理员",
			Name:     "管理员",
			Email:    "admin@example.com",
			IsFrozen: userDatamodel.FrozenNormal,
			IsAdmin:  userDatamodel.AdminYes,
			Sex:      userDatamodel.SexUnknown,
			DeptID:   &deptID,
		}
		admin.Stamp(seedActor)
		if err := tx.Omit("Roles", "Posts").Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		// explicit ids leave the postgres sequence behind
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))").Error; err != nil {
				return fmt.Errorf("sync users sequence: %w", err)
			}
		}
	case err != nil:
		return fmt.Errorf("lookup admin user: %w", err)
	}

	link := userDatamodel.UserRole{UserID: admin.ID, RoleID: roleID}
	if err := tx.Where(&link).FirstOrCreate(&link).Error; err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}
	return nil
}

func seedDictionary(tx *gorm.DB, d seedDict) error {
	dict := dictDatamodel.Dict{
		DictName:   d.Name,
		DictCode:   d.Code,
		DictDesc:   d.Desc,
		SystemFlag: dictDatamodel.SystemFlagSystem,
	}
	dict.Stamp(seedActor)
	if err := tx.Scopes(datamodel.Live).Where("dict_code = ?", d.Code).FirstOrCreate(&dict).Error; err != nil {
		return fmt.Errorf("seed dict %s: %w", d.Code, err)
	}

	for i, v := range d.Values {
		data := dictDatamodel.DictData{
			DictValue:  v[0],
			DictLabel:  v[1],
			DictSort:   i + 1,
			DictTypeID: dict.ID,
			DictType:   dict.DictCode,
		}
		data.Stamp(seedActor)
		if err := tx.Scopes(datamodel.Live).Where("dict_type_id = ? AND dict_value = ?", dict.ID, v[0]).FirstOrCreate(&data).Error; err != nil {
			return fmt.Errorf("seed dict data %s=%s: %w", d.Code, v[0], err)
		}
	}
	return nil
}
