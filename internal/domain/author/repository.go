package author

import (
	"context"
)

// Repository 作者仓储接口
// 与其他集合一致,只提供 count / find / findById / save 四种操作
type Repository interface {
	// Count 统计满足过滤条件的作者数量
	Count(ctx context.Context, filter Filter) (int64, error)

	// Find 查询满足过滤条件的作者(按姓氏、名字排序)
	Find(ctx context.Context, filter Filter) ([]*Author, error)

	// FindByID 根据ID查找作者
	// 如果不存在,返回ErrAuthorNotFound
	FindByID(ctx context.Context, id string) (*Author, error)

	// Save 保存作者(ID为空时新建并回填ID)
	Save(ctx context.Context, a *Author) error
}

// Filter 作者查询条件(字段相等匹配,零值表示不限)
type Filter struct {
	FamilyName string
}
