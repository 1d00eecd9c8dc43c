package genre

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Count 统计满足过滤条件的分类数量
	Count(ctx context.Context, filter Filter) (int64, error)

	// Find 查询满足过滤条件的分类(按名称排序)
	Find(ctx context.Context, filter Filter) ([]*Genre, error)

	// FindByID 根据ID查找分类
	// 如果不存在,返回ErrGenreNotFound
	FindByID(ctx context.Context, id string) (*Genre, error)

	// Save 保存分类
	// 名称重复时返回ErrGenreDuplicate
	Save(ctx context.Context, g *Genre) error
}

// Filter 分类查询条件
type Filter struct {
	Name string
}
