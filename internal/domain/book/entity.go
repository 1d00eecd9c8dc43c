package book

import (
	"time"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book持有作者ID和分类ID集合,都是非拥有引用(作者、分类独立存在)
// 2. Author/Genres只在查询时显式要求"填充"(WithAuthor/WithGenres)才有值
// 3. 写入时不校验引用是否存在,悬空引用在填充时表现为Author == nil
type Book struct {
	ID       string
	Title    string
	AuthorID string
	Summary  string
	ISBN     string
	GenreIDs []string

	Author *author.Author  // 填充后的作者,未填充或作者已不存在时为nil
	Genres []*genre.Genre // 填充后的分类

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 参数均为已清洗的表单值;genreIDs为nil时视为空集合
func NewBook(title, authorID, summary, isbn string, genreIDs []string) *Book {
	now := time.Now()
	return &Book{
		Title:     title,
		AuthorID:  authorID,
		Summary:   summary,
		ISBN:      isbn,
		GenreIDs:  cloneIDs(genreIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// URL 图书详情页地址(规范定位符)
func (b *Book) URL() string {
	return "/catalog/book/" + b.ID
}

// Overwrite 用提交的表单值覆盖标题、简介、ISBN和分类
// 分类是整体替换而不是合并;已填充的Genres随之失效
func (b *Book) Overwrite(title, summary, isbn string, genreIDs []string) {
	b.Title = title
	b.Summary = summary
	b.ISBN = isbn
	b.GenreIDs = cloneIDs(genreIDs)
	b.Genres = nil
	b.UpdatedAt = time.Now()
}

// HasGenreID 图书的分类集合中是否包含该分类ID
func (b *Book) HasGenreID(id string) bool {
	for _, gid := range b.GenreIDs {
		if gid == id {
			return true
		}
	}
	return false
}

// HasGenreNamed 已填充的分类中是否有同名分类
func (b *Book) HasGenreNamed(name string) bool {
	for _, g := range b.Genres {
		if g != nil && g.Name == name {
			return true
		}
	}
	return false
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
