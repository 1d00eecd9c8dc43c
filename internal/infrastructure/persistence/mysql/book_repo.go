package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 作者用Preload填充;分类ID从book_genres读取,分类实体用Preload填充
// 4. 悬空引用不报错:作者不存在时Author为nil,分类不存在时不出现在Genres中
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Count 统计图书数量
func (r *bookRepository) Count(ctx context.Context, filter book.Filter) (int64, error) {
	var total int64
	err := applyBookFilter(conn(ctx, r.db).Model(&BookModel{}), filter).Count(&total).Error
	if err != nil {
		return 0, apperrors.WrapStore(err, "统计图书失败")
	}
	return total, nil
}

// Find 查询图书(按标题排序)
func (r *bookRepository) Find(ctx context.Context, filter book.Filter, opts ...book.QueryOption) ([]*book.Book, error) {
	o := book.ApplyOptions(opts...)

	var models []BookModel
	err := applyBookFilter(withOptions(conn(ctx, r.db), o), filter).
		Order("books.title ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询图书失败")
	}

	return r.toEntities(ctx, models, o)
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string, opts ...book.QueryOption) (*book.Book, error) {
	o := book.ApplyOptions(opts...)

	var model BookModel
	err := withOptions(conn(ctx, r.db), o).Where("books.id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询图书失败")
	}

	books, err := r.toEntities(ctx, []BookModel{model}, o)
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

// Save 保存图书
// 教学要点:
// 1. 图书行和book_genres在同一个事务里写入(已在TxManager事务中时使用Savepoint)
// 2. 分类整体替换:先删除该书的全部连接行,再插入新的
// 3. 保存失败时新建图书的ID会被清空,实体仍然是未保存状态
func (r *bookRepository) Save(ctx context.Context, b *book.Book) error {
	created := ensureID(&b.ID)
	model := toBookModel(b)

	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx.Omit(clause.Associations), created, model); err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", b.ID).Delete(&BookGenreModel{}).Error; err != nil {
			return err
		}
		if rows := joinRows(b); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
	if err != nil {
		if created {
			b.ID = ""
		}
		return apperrors.WrapStore(err, "保存图书失败")
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// toEntities 模型 → 实体,按需补充分类ID
func (r *bookRepository) toEntities(ctx context.Context, models []BookModel, o book.QueryOptions) ([]*book.Book, error) {
	var genreIDs map[string][]string
	if o.Selects(book.FieldGenre) && len(models) > 0 {
		ids := make([]string, 0, len(models))
		for i := range models {
			ids = append(ids, models[i].ID)
		}
		var err error
		if genreIDs, err = r.loadGenreIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		b := toBookEntity(&models[i], o)
		if genreIDs != nil {
			b.GenreIDs = append(b.GenreIDs, genreIDs[b.ID]...)
		}
		books = append(books, b)
	}
	return books, nil
}

// loadGenreIDs 批量读取图书的分类ID(包括已不存在的分类)
func (r *bookRepository) loadGenreIDs(ctx context.Context, bookIDs []string) (map[string][]string, error) {
	var rows []BookGenreModel
	err := conn(ctx, r.db).
		Where("book_id IN ?", bookIDs).
		Order("book_id ASC, genre_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询图书分类失败")
	}

	out := make(map[string][]string, len(bookIDs))
	for _, row := range rows {
		out[row.BookID] = append(out[row.BookID], row.GenreID)
	}
	return out, nil
}

// withOptions 应用投影和填充
func withOptions(db *gorm.DB, o book.QueryOptions) *gorm.DB {
	if cols := bookColumns(o); cols != nil {
		db = db.Select(cols)
	}
	if o.PopulateAuthor {
		db = db.Preload("Author")
	}
	if o.PopulateGenres {
		db = db.Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		})
	}
	return db
}

// bookColumns 投影字段 → 列名;返回nil表示全部列
// id总是返回;填充作者时必须带上author_id
func bookColumns(o book.QueryOptions) []string {
	if len(o.Fields) == 0 {
		return nil
	}

	cols := []string{"books.id"}
	hasAuthor := false
	for _, f := range o.Fields {
		switch f {
		case book.FieldTitle:
			cols = append(cols, "books.title")
		case book.FieldAuthor:
			cols = append(cols, "books.author_id")
			hasAuthor = true
		case book.FieldSummary:
			cols = append(cols, "books.summary")
		case book.FieldISBN:
			cols = append(cols, "books.isbn")
		}
	}
	if o.PopulateAuthor && !hasAuthor {
		cols = append(cols, "books.author_id")
	}
	return cols
}

func applyBookFilter(db *gorm.DB, filter book.Filter) *gorm.DB {
	if filter.AuthorID != "" {
		db = db.Where("books.author_id = ?", filter.AuthorID)
	}
	if filter.GenreID != "" {
		db = db.Where("books.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", filter.GenreID)
	}
	return db
}

// toBookEntity GORM模型 → 领域实体
// GenreIDs初始为空集合,由toEntities按投影补充
func toBookEntity(m *BookModel, o book.QueryOptions) *book.Book {
	b := &book.Book{
		ID:        m.ID,
		Title:     m.Title,
		AuthorID:  m.AuthorID,
		Summary:   m.Summary,
		ISBN:      m.ISBN,
		GenreIDs:  []string{},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if o.PopulateAuthor && m.Author != nil {
		b.Author = toAuthorEntity(m.Author)
	}
	if o.PopulateGenres {
		for i := range m.Genres {
			b.Genres = append(b.Genres, toGenreEntity(&m.Genres[i]))
		}
	}
	return b
}

// toBookModel 领域实体 → GORM模型(不带关联)
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:        b.ID,
		Title:     b.Title,
		AuthorID:  b.AuthorID,
		Summary:   b.Summary,
		ISBN:      b.ISBN,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// joinRows 图书的分类集合 → 连接表行(去重)
func joinRows(b *book.Book) []BookGenreModel {
	seen := make(map[string]bool, len(b.GenreIDs))
	rows := make([]BookGenreModel, 0, len(b.GenreIDs))
	for _, gid := range b.GenreIDs {
		if gid == "" || seen[gid] {
			continue
		}
		seen[gid] = true
		rows = append(rows, BookGenreModel{BookID: b.ID, GenreID: gid})
	}
	return rows
}
