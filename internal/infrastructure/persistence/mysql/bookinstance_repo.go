package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// bookInstanceRepository 馆藏副本仓储实现(MySQL)
type bookInstanceRepository struct {
	db *gorm.DB
}

// NewBookInstanceRepository 创建副本仓储
func NewBookInstanceRepository(db *gorm.DB) bookinstance.Repository {
	return &bookInstanceRepository{db: db}
}

// Count 统计副本数量(如 Filter{Status: Available} 统计可借副本)
func (r *bookInstanceRepository) Count(ctx context.Context, filter bookinstance.Filter) (int64, error) {
	var total int64
	err := applyInstanceFilter(conn(ctx, r.db).Model(&BookInstanceModel{}), filter).Count(&total).Error
	if err != nil {
		return 0, apperrors.WrapStore(err, "统计副本失败")
	}
	return total, nil
}

// Find 查询副本
func (r *bookInstanceRepository) Find(ctx context.Context, filter bookinstance.Filter) ([]*bookinstance.BookInstance, error) {
	var models []BookInstanceModel
	err := applyInstanceFilter(conn(ctx, r.db), filter).Order("created_at ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询副本失败")
	}

	instances := make([]*bookinstance.BookInstance, 0, len(models))
	for i := range models {
		instances = append(instances, toInstanceEntity(&models[i]))
	}
	return instances, nil
}

// FindByID 根据ID查找副本
func (r *bookInstanceRepository) FindByID(ctx context.Context, id string) (*bookinstance.BookInstance, error) {
	var model BookInstanceModel
	err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookinstance.ErrBookInstanceNotFound
		}
		return nil, apperrors.WrapStore(err, "查询副本失败")
	}
	return toInstanceEntity(&model), nil
}

// Save 保存副本
func (r *bookInstanceRepository) Save(ctx context.Context, bi *bookinstance.BookInstance) error {
	if !bi.Status.IsValid() {
		return bookinstance.ErrInvalidStatus
	}
	created := ensureID(&bi.ID)
	model := &BookInstanceModel{
		ID:        bi.ID,
		BookID:    bi.BookID,
		Imprint:   bi.Imprint,
		Status:    string(bi.Status),
		DueBack:   bi.DueBack,
		CreatedAt: bi.CreatedAt,
		UpdatedAt: bi.UpdatedAt,
	}
	if err := persist(conn(ctx, r.db), created, model); err != nil {
		return apperrors.WrapStore(err, "保存副本失败")
	}
	bi.CreatedAt = model.CreatedAt
	bi.UpdatedAt = model.UpdatedAt
	return nil
}

func applyInstanceFilter(db *gorm.DB, filter bookinstance.Filter) *gorm.DB {
	if filter.BookID != "" {
		db = db.Where("book_id = ?", filter.BookID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", string(filter.Status))
	}
	return db
}

// toInstanceEntity GORM模型 → 领域实体
func toInstanceEntity(m *BookInstanceModel) *bookinstance.BookInstance {
	return &bookinstance.BookInstance{
		ID:        m.ID,
		BookID:    m.BookID,
		Imprint:   m.Imprint,
		Status:    bookinstance.Status(m.Status),
		DueBack:   m.DueBack,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
