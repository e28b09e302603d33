package dict

import (
	"context"
	"time"

	dictDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dict"
)

type RepositoryAPI interface {
	GetDict(ctx context.Context, id int64) (*dictDatamodel.Dict, error)
	GetDictByCode(ctx context.Context, code string) (*dictDatamodel.Dict, error)
	// ListDicts matches name against dict_name or dict_code.
	ListDicts(ctx context.Context, name string) ([]*dictDatamodel.Dict, error)
	// SaveDict writes the type and, when its code changed, the copy held by
	// every data row.
	SaveDict(ctx context.Context, d *dictDatamodel.Dict) error
	// SoftDeleteDict removes the type with its data rows.
	SoftDeleteDict(ctx context.Context, id int64, actor string) error

	GetData(ctx context.Context, id int64) (*dictDatamodel.DictData, error)
	ListData(ctx context.Context, typeID int64, offset, limit int) ([]*dictDatamodel.DictData, int64, error)
	DataByType(ctx context.Context, code string) ([]*dictDatamodel.DictData, error)
	SaveData(ctx context.Context, d *dictDatamodel.DictData) error
	SoftDeleteData(ctx context.Context, id int64, actor string) error
}

type Dict struct {
	ID         int64     `json:"id"`
	DictName   string    `json:"dictName"`
	DictCode   string    `json:"dictCode"`
	DictDesc   string    `json:"dictDesc"`
	SystemFlag string    `json:"systemFlag"`
	Remark     string    `json:"remark"`
	CreateTime time.Time `json:"createTime"`
}

type Data struct {
	ID         int64     `json:"id"`
	DictValue  string    `json:"dictValue"`
	DictLabel  string    `json:"dictLabel"`
	DictDesc   string    `json:"dictDesc"`
	DictRemark string    `json:"dictRemark"`
	DictSort   int       `json:"dictSort"`
	DictTypeID int64     `json:"dictTypeId"`
	DictType   string    `json:"dictType"`
	CreateTime time.Time `json:"createTime"`
}

func FromDataModel(d *dictDatamodel.Dict) Dict {
	return Dict{
		ID:         d.ID,
		DictName:   d.DictName,
		DictCode:   d.DictCode,
		DictDesc:   d.DictDesc,
		SystemFlag: d.SystemFlag,
		Remark:     d.Remark,
		CreateTime: d.CreateTime,
	}
}

func DataFromDataModel(d *dictDatamodel.DictData) Data {
	return Data{
		ID:         d.ID,
		DictValue:  d.DictValue,
		DictLabel:  d.DictLabel,
		DictDesc:   d.DictDesc,
		DictRemark: d.DictRemark,
		DictSort:   d.DictSort,
		DictTypeID: d.DictTypeID,
		DictType:   d.DictType,
		CreateTime: d.CreateTime,
	}
}

func dataViews(rows []*dictDatamodel.DictData) []Data {
	out := make([]Data, 0, len(rows))
	for _, d := range rows {
		out = append(out, DataFromDataModel(d))
	}
	return out
}
