package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// genreRepository 分类仓储实现(MySQL)
type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(db *gorm.DB) genre.Repository {
	return &genreRepository{db: db}
}

// Count 统计分类数量
func (r *genreRepository) Count(ctx context.Context, filter genre.Filter) (int64, error) {
	var total int64
	err := applyGenreFilter(conn(ctx, r.db).Model(&GenreModel{}), filter).Count(&total).Error
	if err != nil {
		return 0, apperrors.WrapStore(err, "统计分类失败")
	}
	return total, nil
}

// Find 查询分类(按名称排序)
func (r *genreRepository) Find(ctx context.Context, filter genre.Filter) ([]*genre.Genre, error) {
	var models []GenreModel
	err := applyGenreFilter(conn(ctx, r.db), filter).Order("name ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询分类失败")
	}

	genres := make([]*genre.Genre, 0, len(models))
	for i := range models {
		genres = append(genres, toGenreEntity(&models[i]))
	}
	return genres, nil
}

// FindByID 根据ID查找分类
func (r *genreRepository) FindByID(ctx context.Context, id string) (*genre.Genre, error) {
	var model GenreModel
	err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, apperrors.WrapStore(err, "查询分类失败")
	}
	return toGenreEntity(&model), nil
}

// Save 保存分类
// 名称唯一索引冲突时返回ErrGenreDuplicate
func (r *genreRepository) Save(ctx context.Context, g *genre.Genre) error {
	created := ensureID(&g.ID)
	model := &GenreModel{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if err := persist(conn(ctx, r.db), created, model); err != nil {
		if isDuplicateError(err) {
			return genre.ErrGenreDuplicate
		}
		return apperrors.WrapStore(err, "保存分类失败")
	}
	g.CreatedAt = model.CreatedAt
	g.UpdatedAt = model.UpdatedAt
	return nil
}

func applyGenreFilter(db *gorm.DB, filter genre.Filter) *gorm.DB {
	if filter.Name != "" {
		db = db.Where("name = ?", filter.Name)
	}
	return db
}

// toGenreEntity GORM模型 → 领域实体
func toGenreEntity(m *GenreModel) *genre.Genre {
	return &genre.Genre{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
