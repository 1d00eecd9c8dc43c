package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 四种操作:Count/Find/FindByID/Save,与作者、分类、副本仓储保持一致
// 3. 引用填充(作者、分类)按查询显式指定,不会自动发生
type Repository interface {
	// Count 统计满足过滤条件的图书数量
	Count(ctx context.Context, filter Filter) (int64, error)

	// Find 查询图书列表(按标题排序)
	// opts可指定投影字段与引用填充,如 Find(ctx, Filter{}, WithFields(FieldTitle, FieldAuthor), WithAuthor())
	Find(ctx context.Context, filter Filter, opts ...QueryOption) ([]*Book, error)

	// FindByID 根据ID查找图书
	// 不存在时返回ErrBookNotFound(不是存储错误)
	FindByID(ctx context.Context, id string, opts ...QueryOption) (*Book, error)

	// Save 保存图书
	// ID为空时新建并回填ID;否则整体覆盖,分类集合按GenreIDs整体替换
	Save(ctx context.Context, b *Book) error
}

// Filter 图书查询条件(字段相等匹配,零值表示不限)
type Filter struct {
	AuthorID string
	GenreID  string // 分类集合中包含该ID
}

// 可投影的字段名
const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldSummary = "summary"
	FieldISBN    = "isbn"
	FieldGenre   = "genre"
)

// QueryOptions 单次查询的投影与填充设置
type QueryOptions struct {
	Fields         []string // 为空表示全部字段(ID总是返回)
	PopulateAuthor bool
	PopulateGenres bool
}

// QueryOption 查询选项
type QueryOption func(*QueryOptions)

// WithAuthor 填充作者
func WithAuthor() QueryOption {
	return func(o *QueryOptions) { o.PopulateAuthor = true }
}

// WithGenres 填充分类
func WithGenres() QueryOption {
	return func(o *QueryOptions) { o.PopulateGenres = true }
}

// WithFields 只返回指定字段
func WithFields(fields ...string) QueryOption {
	return func(o *QueryOptions) { o.Fields = append(o.Fields, fields...) }
}

// ApplyOptions 合并查询选项,供仓储实现使用
func ApplyOptions(opts ...QueryOption) QueryOptions {
	var o QueryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Selects 投影中是否包含该字段
func (o QueryOptions) Selects(field string) bool {
	if len(o.Fields) == 0 {
		return true
	}
	for _, f := range o.Fields {
		if f == field {
			return true
		}
	}
	return false
}
