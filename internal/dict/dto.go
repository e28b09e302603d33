package dict

type SaveDictDTO struct {
	DictName   string `json:"dictName" validate:"required,max=100"`
	DictCode   string `json:"dictCode" validate:"required,max=100"`
	DictDesc   string `json:"dictDesc" validate:"max=100"`
	SystemFlag string `json:"systemFlag" validate:"required,oneof=SYSTEM BUSINESS"`
	Remark     string `json:"remark" validate:"max=255"`
}

type SaveDataDTO struct {
	DictTypeID int64  `json:"dictTypeId" validate:"required,min=1"`
	DictValue  string `json:"dictValue" validate:"required,max=100"`
	DictLabel  string `json:"dictLabel" validate:"required,max=100"`
	DictDesc   string `json:"dictDesc" validate:"max=255"`
	DictRemark string `json:"dictRemark" validate:"max=255"`
	DictSort   int    `json:"dictSort" validate:"min=0"`
}
