package menu

type SaveMenuDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	EnName      string `json:"enName" validate:"max=100"`
	MenuType    int    `json:"menuType" validate:"oneof=0 1 2"`
	ParentID    int64  `json:"parentId" validate:"required"`
	Path        string `json:"path" validate:"max=255"`
	Permission  string `json:"permission" validate:"max=100"`
	Component   string `json:"component" validate:"max=255"`
	Icon        string `json:"icon" validate:"max=100"`
	IsKeepAlive bool   `json:"isKeepAlive"`
	IsIframe    bool   `json:"isIframe"`
	IsHide      bool   `json:"isHide"`
	SortOrder   int    `json:"sortOrder" validate:"min=0"`
}

type UpdateMenuDTO struct {
	ID int64 `json:"id" validate:"required,min=1"`
	SaveMenuDTO
}
