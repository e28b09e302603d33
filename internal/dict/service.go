package dict

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	dictDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/dict"
)

var (
	ErrDictNotFound   = internal.NewNotFoundError("字典不存在")
	ErrDataNotFound   = internal.NewNotFoundError("字典数据不存在")
	ErrDictCodeExists = internal.NewConflictError("字典编码已存在")
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateDict(ctx context.Context, dto SaveDictDTO) (*Dict, error) {
	if err := s.checkCode(ctx, dto.DictCode, 0); err != nil {
		return nil, err
	}
	d := &dictDatamodel.Dict{
		DictName:   dto.DictName,
		DictCode:   dto.DictCode,
		DictDesc:   dto.DictDesc,
		SystemFlag: dto.SystemFlag,
	}
	d.Stamp(internal.ActorFromContext(ctx))
	d.Remark = dto.Remark

	if err := s.repo.SaveDict(ctx, d); err != nil {
		return nil, fmt.Errorf("create dict: %w", err)
	}
	out := FromDataModel(d)
	return &out, nil
}

func (s *Service) UpdateDict(ctx context.Context, id int64, dto SaveDictDTO) (*Dict, error) {
	d, err := s.mustGetDict(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.DictCode != d.DictCode {
		if err := s.checkCode(ctx, dto.DictCode, id); err != nil {
			return nil, err
		}
	}
	d.DictName = dto.DictName
	d.DictCode = dto.DictCode
	d.DictDesc = dto.DictDesc
	d.SystemFlag = dto.SystemFlag
	d.Remark = dto.Remark
	d.UpdateBy = internal.ActorFromContext(ctx)

	if err := s.repo.SaveDict(ctx, d); err != nil {
		return nil, fmt.Errorf("update dict: %w", err)
	}
	out := FromDataModel(d)
	return &out, nil
}

func (s *Service) DeleteDict(ctx context.Context, id int64) error {
	if _, err := s.mustGetDict(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteDict(ctx, id, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete dict: %w", err)
	}
	s.logger.Info("dict deleted", "dict_id", id)
	return nil
}

func (s *Service) ListDicts(ctx context.Context, name string) ([]Dict, error) {
	rows, err := s.repo.ListDicts(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list dicts: %w", err)
	}
	out := make([]Dict, 0, len(rows))
	for _, d := range rows {
		out = append(out, FromDataModel(d))
	}
	return out, nil
}

func (s *Service) DictDetail(ctx context.Context, id int64) (*Dict, error) {
	d, err := s.mustGetDict(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromDataModel(d)
	return &out, nil
}

// CreateData adds an entry to an existing type, copying the type code.
func (s *Service) CreateData(ctx context.Context, dto SaveDataDTO) (*Data, error) {
	typ, err := s.mustGetDict(ctx, dto.DictTypeID)
	if err != nil {
		return nil, err
	}
	d := &dictDatamodel.DictData{}
	applyData(d, dto, typ)
	d.Stamp(internal.ActorFromContext(ctx))

	if err := s.repo.SaveData(ctx, d); err != nil {
		return nil, fmt.Errorf("create dict data: %w", err)
	}
	out := DataFromDataModel(d)
	return &out, nil
}

func (s *Service) UpdateData(ctx context.Context, id int64, dto SaveDataDTO) (*Data, error) {
	d, err := s.mustGetData(ctx, id)
	if err != nil {
		return nil, err
	}
	typ, err := s.mustGetDict(ctx, dto.DictTypeID)
	if err != nil {
		return nil, err
	}
	applyData(d, dto, typ)
	d.UpdateBy = internal.ActorFromContext(ctx)

	if err := s.repo.SaveData(ctx, d); err != nil {
		return nil, fmt.Errorf("update dict data: %w", err)
	}
	out := DataFromDataModel(d)
	return &out, nil
}

func (s *Service) DeleteData(ctx context.Context, id int64) error {
	if _, err := s.mustGetData(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteData(ctx, id, internal.ActorFromContext(ctx)); err != nil {
		return fmt.Errorf("delete dict data: %w", err)
	}
	return nil
}

func (s *Service) DataDetail(ctx context.Context, id int64) (*Data, error) {
	d, err := s.mustGetData(ctx, id)
	if err != nil {
		return nil, err
	}
	out := DataFromDataModel(d)
	return &out, nil
}

func (s *Service) ListData(ctx context.Context, typeID int64, params pagination.Params) (pagination.Page[Data], error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListData(ctx, typeID, params.Offset(), params.Size)
	if err != nil {
		return pagination.Page[Data]{}, fmt.Errorf("list dict data: %w", err)
	}
	return pagination.NewPage(dataViews(rows), params, total), nil
}

// ByType lists the entries of the type with the given code in sort order.
func (s *Service) ByType(ctx context.Context, code string) ([]Data, error) {
	rows, err := s.repo.DataByType(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("dict data by type: %w", err)
	}
	return dataViews(rows), nil
}

// AsObjectByType maps every value of the type to its label.
func (s *Service) AsObjectByType(ctx context.Context, code string) (map[string]string, error) {
	rows, err := s.repo.DataByType(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("dict data by type: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, d := range rows {
		out[d.DictValue] = d.DictLabel
	}
	return out, nil
}

func (s *Service) checkCode(ctx context.Context, code string, selfID int64) error {
	existing, err := s.repo.GetDictByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup dict code: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDictCodeExists
	}
	return nil
}

func (s *Service) mustGetDict(ctx context.Context, id int64) (*dictDatamodel.Dict, error) {
	d, err := s.repo.GetDict(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dict %d: %w", id, err)
	}
	if d == nil {
		return nil, ErrDictNotFound
	}
	return d, nil
}

func (s *Service) mustGetData(ctx context.Context, id int64) (*dictDatamodel.DictData, error) {
	d, err := s.repo.GetData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dict data %d: %w", id, err)
	}
	if d == nil {
		return nil, ErrDataNotFound
	}
	return d, nil
}

func applyData(d *dictDatamodel.DictData, dto SaveDataDTO, typ *dictDatamodel.Dict) {
	d.DictValue = dto.DictValue
	d.DictLabel = dto.DictLabel
	d.DictDesc = dto.DictDesc
	d.DictRemark = dto.DictRemark
	d.DictSort = dto.DictSort
	d.DictTypeID = typ.ID
	d.DictType = typ.DictCode
}
