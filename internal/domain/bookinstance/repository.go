package bookinstance

import (
	"context"
)

// Repository 馆藏副本仓储接口
type Repository interface {
	// Count 统计副本数量
	// 首页用它统计"全部副本"和"可借副本"(Filter{Status: StatusAvailable})
	Count(ctx context.Context, filter Filter) (int64, error)

	// Find 查询副本
	// 图书详情页用Filter{BookID: id}查出该书的全部副本
	Find(ctx context.Context, filter Filter) ([]*BookInstance, error)

	// FindByID 根据ID查找副本
	// 如果不存在,返回ErrBookInstanceNotFound
	FindByID(ctx context.Context, id string) (*BookInstance, error)

	// Save 保存副本
	Save(ctx context.Context, bi *BookInstance) error
}

// Filter 副本查询条件(字段相等匹配,零值表示不限)
type Filter struct {
	BookID string
	Status Status
}
