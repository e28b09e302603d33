package menu

import (
	"context"
	"strings"
	"time"

	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
)

type RepositoryAPI interface {
	// FindNavigable returns live directory and page menus within ids ordered by
	// sort order.
	FindNavigable(ctx context.Context, ids []int64) ([]menuDatamodel.Menu, error)
	FindAll(ctx context.Context, name string) ([]menuDatamodel.Menu, error)
	GetByID(ctx context.Context, id int64) (*menuDatamodel.Menu, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, m *menuDatamodel.Menu) error
	Update(ctx context.Context, m *menuDatamodel.Menu) error
	SoftDelete(ctx context.Context, id int64, actor string) error
}

// MenuResolver maps a user to the menus granted by the roles the user
// currently holds.
type MenuResolver interface {
	ResolveUserMenuIDs(ctx context.Context, userID int64) ([]int64, error)
}

// Meta is the UI metadata the front end router consumes.
type Meta struct {
	Icon         string `json:"icon"`
	IsKeepAlive  bool   `json:"isKeepAlive"`
	IsHide       bool   `json:"isHide"`
	IsAffix      bool   `json:"isAffix"`
	IsIframe     bool   `json:"isIframe"`
	IframeURL    string `json:"iframeUrl"`
	RequiresAuth bool   `json:"requiresAuth"`
	HideInMenu   bool   `json:"hideInMenu"`
	Title        string `json:"title"`
}

// UserMenu is one node of the navigation tree served to a signed-in user.
type UserMenu struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Path         string      `json:"path"`
	Permission   string      `json:"permission"`
	MenuType     int         `json:"menuType"`
	Component    string      `json:"component"`
	SortOrder    int         `json:"sortOrder"`
	ParentMenuID int64       `json:"parentMenuId"`
	Meta         Meta        `json:"meta"`
	Children     []*UserMenu `json:"children"`
}

func NewUserMenu(m menuDatamodel.Menu) *UserMenu {
	iframe := strings.HasPrefix(m.Path, "http")
	iframeURL := ""
	if iframe {
		iframeURL = m.Path
	}
	return &UserMenu{
		ID:           m.ID,
		Name:         m.EnName,
		Path:         m.Path,
		Permission:   m.Permission,
		MenuType:     m.MenuType,
		Component:    m.Component,
		SortOrder:    m.SortOrder,
		ParentMenuID: m.ParentMenuID,
		Meta: Meta{
			Icon:         m.Icon,
			IsKeepAlive:  m.KeepAlive == "1",
			IsHide:       m.Visible == "1",
			IsAffix:      m.Embedded == "1",
			IsIframe:     iframe,
			IframeURL:    iframeURL,
			RequiresAuth: true,
			HideInMenu:   false,
			Title:        m.Name,
		},
		Children: []*UserMenu{},
	}
}

// Menu is the administrative view of a menu row.
type Menu struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	EnName     string    `json:"enName"`
	Path       string    `json:"path"`
	Icon       string    `json:"icon"`
	KeepAlive  string    `json:"keepAlive"`
	Visible    string    `json:"visible"`
	Embedded   string    `json:"embedded"`
	IsIframe   string    `json:"isIframe"`
	ParentID   int64     `json:"parentId"`
	SortOrder  int       `json:"sortOrder"`
	Permission string    `json:"permission"`
	MenuType   int       `json:"menuType"`
	Component  string    `json:"component"`
	CreateTime time.Time `json:"createTime"`
	Children   []*Menu   `json:"children,omitempty"`
}

func FromDataModel(m menuDatamodel.Menu) *Menu {
	return &Menu{
		ID:         m.ID,
		Name:       m.Name,
		EnName:     m.EnName,
		Path:       m.Path,
		Icon:       m.Icon,
		KeepAlive:  m.KeepAlive,
		Visible:    m.Visible,
		Embedded:   m.Embedded,
		IsIframe:   m.IsIframe,
		ParentID:   m.ParentMenuID,
		SortOrder:  m.SortOrder,
		Permission: m.Permission,
		MenuType:   m.MenuType,
		Component:  m.Component,
		CreateTime: m.CreateTime,
	}
}
