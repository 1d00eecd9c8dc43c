package genre

import (
	"time"
)

// Genre 图书分类实体
// Book持有分类ID集合(多对多,非拥有引用)
type Genre struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGenre 创建新分类
func NewGenre(name string) *Genre {
	now := time.Now()
	return &Genre{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// URL 分类详情页地址
func (g *Genre) URL() string {
	return "/catalog/genre/" + g.ID
}
