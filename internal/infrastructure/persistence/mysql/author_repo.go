package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// authorRepository 作者仓储实现(MySQL)
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{db: db}
}

// Count 统计作者数量
func (r *authorRepository) Count(ctx context.Context, filter author.Filter) (int64, error) {
	var total int64
	err := applyAuthorFilter(conn(ctx, r.db).Model(&AuthorModel{}), filter).Count(&total).Error
	if err != nil {
		return 0, apperrors.WrapStore(err, "统计作者失败")
	}
	return total, nil
}

// Find 查询作者(按姓、名排序)
func (r *authorRepository) Find(ctx context.Context, filter author.Filter) ([]*author.Author, error) {
	var models []AuthorModel
	err := applyAuthorFilter(conn(ctx, r.db), filter).
		Order("family_name ASC, first_name ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询作者失败")
	}

	authors := make([]*author.Author, 0, len(models))
	for i := range models {
		authors = append(authors, toAuthorEntity(&models[i]))
	}
	return authors, nil
}

// FindByID 根据ID查找作者
func (r *authorRepository) FindByID(ctx context.Context, id string) (*author.Author, error) {
	var model AuthorModel
	err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, apperrors.WrapStore(err, "查询作者失败")
	}
	return toAuthorEntity(&model), nil
}

// Save 保存作者(ID为空时新建)
func (r *authorRepository) Save(ctx context.Context, a *author.Author) error {
	created := ensureID(&a.ID)
	model := toAuthorModel(a)
	if err := persist(conn(ctx, r.db), created, model); err != nil {
		return apperrors.WrapStore(err, "保存作者失败")
	}
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

func applyAuthorFilter(db *gorm.DB, filter author.Filter) *gorm.DB {
	if filter.FamilyName != "" {
		db = db.Where("family_name = ?", filter.FamilyName)
	}
	return db
}

// toAuthorEntity GORM模型 → 领域实体
func toAuthorEntity(m *AuthorModel) *author.Author {
	return &author.Author{
		ID:          m.ID,
		FirstName:   m.FirstName,
		FamilyName:  m.FamilyName,
		DateOfBirth: m.DateOfBirth,
		DateOfDeath: m.DateOfDeath,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toAuthorModel(a *author.Author) *AuthorModel {
	return &AuthorModel{
		ID:          a.ID,
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirth,
		DateOfDeath: a.DateOfDeath,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
