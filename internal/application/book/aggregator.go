package book

import (
	"context"
	"time"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	"github.com/xiebiao/locallibrary/pkg/join"
	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/tracing"
)

const tracerName = "library.book"

// 聚合名(同时用作Span名后缀和指标标签)
const (
	aggDashboard      = "dashboard"
	aggBookDetail     = "book_detail"
	aggFormReferences = "form_references"
	aggBookEdit       = "book_edit"
)

// Aggregator 并发读取协调器
// 设计说明:
// 1. 每种页面需要的几次读取互不依赖,通过join同时发出
// 2. 任一读取失败整体失败(不返回部分结果),错误原样返回
// 3. 图书不存在时返回book.ErrBookNotFound,而不是存储错误
type Aggregator struct {
	books     book.Repository
	authors   author.Repository
	genres    genre.Repository
	instances bookinstance.Repository
}

// NewAggregator 创建协调器
func NewAggregator(
	books book.Repository,
	authors author.Repository,
	genres genre.Repository,
	instances bookinstance.Repository,
) *Aggregator {
	return &Aggregator{
		books:     books,
		authors:   authors,
		genres:    genres,
		instances: instances,
	}
}

// DashboardCounts 首页统计
type DashboardCounts struct {
	Books              int64
	Instances          int64
	AvailableInstances int64
	Authors            int64
	Genres             int64
}

// BookDetail 详情页数据:图书(已填充作者和分类)+ 它的全部副本
type BookDetail struct {
	Book      *book.Book
	Instances []*bookinstance.BookInstance
}

// FormReferences 表单引用数据:全部作者和全部分类
type FormReferences struct {
	Authors []*author.Author
	Genres  []*genre.Genre
}

// BookEdit 编辑页数据:图书(已填充)+ 全部分类
type BookEdit struct {
	Book   *book.Book
	Genres []*genre.Genre
}

// Dashboard 并发统计五个数量
func (a *Aggregator) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	results, err := a.run(ctx, aggDashboard, func(g *join.Group) {
		g.Go("book_count", func(ctx context.Context) (any, error) {
			return a.books.Count(ctx, book.Filter{})
		})
		g.Go("book_instance_count", func(ctx context.Context) (any, error) {
			return a.instances.Count(ctx, bookinstance.Filter{})
		})
		g.Go("book_instance_available_count", func(ctx context.Context) (any, error) {
			return a.instances.Count(ctx, bookinstance.Filter{Status: bookinstance.StatusAvailable})
		})
		g.Go("author_count", func(ctx context.Context) (any, error) {
			return a.authors.Count(ctx, author.Filter{})
		})
		g.Go("genre_count", func(ctx context.Context) (any, error) {
			return a.genres.Count(ctx, genre.Filter{})
		})
	})
	if err != nil {
		return nil, err
	}

	return &DashboardCounts{
		Books:              join.Value[int64](results, "book_count"),
		Instances:          join.Value[int64](results, "book_instance_count"),
		AvailableInstances: join.Value[int64](results, "book_instance_available_count"),
		Authors:            join.Value[int64](results, "author_count"),
		Genres:             join.Value[int64](results, "genre_count"),
	}, nil
}

// BookDetail 并发读取图书和它的副本
func (a *Aggregator) BookDetail(ctx context.Context, id string) (*BookDetail, error) {
	results, err := a.run(ctx, aggBookDetail, func(g *join.Group) {
		g.Go("book", func(ctx context.Context) (any, error) {
			return a.books.FindByID(ctx, id, book.WithAuthor(), book.WithGenres())
		})
		g.Go("book_instances", func(ctx context.Context) (any, error) {
			return a.instances.Find(ctx, bookinstance.Filter{BookID: id})
		})
	})
	if err != nil {
		return nil, err
	}

	b := join.Value[*book.Book](results, "book")
	if b == nil {
		return nil, book.ErrBookNotFound
	}
	return &BookDetail{
		Book:      b,
		Instances: join.Value[[]*bookinstance.BookInstance](results, "book_instances"),
	}, nil
}

// FormReferences 并发读取全部作者和分类
func (a *Aggregator) FormReferences(ctx context.Context) (*FormReferences, error) {
	results, err := a.run(ctx, aggFormReferences, func(g *join.Group) {
		g.Go("authors", func(ctx context.Context) (any, error) {
			return a.authors.Find(ctx, author.Filter{})
		})
		g.Go("genres", func(ctx context.Context) (any, error) {
			return a.genres.Find(ctx, genre.Filter{})
		})
	})
	if err != nil {
		return nil, err
	}

	return &FormReferences{
		Authors: join.Value[[]*author.Author](results, "authors"),
		Genres:  join.Value[[]*genre.Genre](results, "genres"),
	}, nil
}

// BookForEdit 并发读取图书(已填充)和全部分类
func (a *Aggregator) BookForEdit(ctx context.Context, id string) (*BookEdit, error) {
	results, err := a.run(ctx, aggBookEdit, func(g *join.Group) {
		g.Go("book", func(ctx context.Context) (any, error) {
			return a.books.FindByID(ctx, id, book.WithAuthor(), book.WithGenres())
		})
		g.Go("genres", func(ctx context.Context) (any, error) {
			return a.genres.Find(ctx, genre.Filter{})
		})
	})
	if err != nil {
		return nil, err
	}

	b := join.Value[*book.Book](results, "book")
	if b == nil {
		return nil, book.ErrBookNotFound
	}
	return &BookEdit{
		Book:   b,
		Genres: join.Value[[]*genre.Genre](results, "genres"),
	}, nil
}

// run 在一个Span里执行一次join,并记录耗时指标
func (a *Aggregator) run(ctx context.Context, name string, members func(g *join.Group)) (join.Results, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "aggregate."+name)
	start := time.Now()

	g := join.New(ctx)
	members(g)
	results, err := g.Wait()

	metrics.ObserveAggregation(name, start, err)
	tracing.EndSpan(span, err)
	return results, err
}
