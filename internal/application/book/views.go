package book

import (
	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	"github.com/xiebiao/locallibrary/pkg/validation"
)

// AuthorView 作者展示DTO
type AuthorView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FirstName  string `json:"first_name"`
	FamilyName string `json:"family_name"`
	Lifespan   string `json:"lifespan,omitempty"`
	URL        string `json:"url"`
}

// GenreView 分类展示DTO
// Checked只在表单视图中有意义:表示该分类当前属于正在编辑的图书
type GenreView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Checked bool   `json:"checked,omitempty"`
}

// InstanceView 馆藏副本展示DTO
type InstanceView struct {
	ID      string `json:"id"`
	Imprint string `json:"imprint"`
	Status  string `json:"status"`
	DueBack string `json:"due_back,omitempty"` // 2006-01-02
	URL     string `json:"url"`
}

// BookView 图书展示DTO
type BookView struct {
	ID       string      `json:"id,omitempty"`
	Title    string      `json:"title"`
	AuthorID string      `json:"author_id,omitempty"`
	Author   *AuthorView `json:"author,omitempty"` // 未填充或作者已不存在时为空
	Summary  string      `json:"summary,omitempty"`
	ISBN     string      `json:"isbn,omitempty"`
	GenreIDs []string    `json:"genre_ids,omitempty"`
	Genres   []GenreView `json:"genres,omitempty"`
	URL      string      `json:"url,omitempty"` // 未保存的图书没有地址
}

// IndexPayload 首页数据
type IndexPayload struct {
	Title                      string `json:"title"`
	BookCount                  int64  `json:"book_count"`
	BookInstanceCount          int64  `json:"book_instance_count"`
	BookInstanceAvailableCount int64  `json:"book_instance_available_count"`
	AuthorCount                int64  `json:"author_count"`
	GenreCount                 int64  `json:"genre_count"`
}

// BookListPayload 图书列表数据
type BookListPayload struct {
	Title string     `json:"title"`
	Books []BookView `json:"book_list"`
}

// BookDetailPayload 图书详情数据
type BookDetailPayload struct {
	Title     string         `json:"title"`
	Book      BookView       `json:"book"`
	Instances []InstanceView `json:"book_instances"`
}

// BookFormPayload 新建图书表单数据
// 首次打开时Book和Errors为空;校验失败重新渲染时带上提交的值和错误列表
type BookFormPayload struct {
	Title   string            `json:"title"`
	Authors []AuthorView      `json:"authors"`
	Genres  []GenreView       `json:"genres"`
	Book    *BookView         `json:"book,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// BookUpdatePayload 更新图书表单数据
// Errors按字段索引(每个字段只保留第一条错误)
type BookUpdatePayload struct {
	Title  string                           `json:"title"`
	Book   BookView                         `json:"book"`
	Genres []GenreView                      `json:"genres"`
	Errors map[string]validation.FieldError `json:"errors,omitempty"`
}

func newAuthorView(a *author.Author) *AuthorView {
	if a == nil {
		return nil
	}
	return &AuthorView{
		ID:         a.ID,
		Name:       a.Name(),
		FirstName:  a.FirstName,
		FamilyName: a.FamilyName,
		Lifespan:   a.Lifespan(),
		URL:        a.URL(),
	}
}

func newAuthorViews(authors []*author.Author) []AuthorView {
	views := make([]AuthorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, *newAuthorView(a))
	}
	return views
}

// newGenreViews 转换分类列表,checked判断每个分类是否勾选
func newGenreViews(genres []*genre.Genre, checked func(*genre.Genre) bool) []GenreView {
	views := make([]GenreView, 0, len(genres))
	for _, g := range genres {
		v := GenreView{ID: g.ID, Name: g.Name, URL: g.URL()}
		if checked != nil {
			v.Checked = checked(g)
		}
		views = append(views, v)
	}
	return views
}

func newInstanceViews(instances []*bookinstance.BookInstance) []InstanceView {
	views := make([]InstanceView, 0, len(instances))
	for _, bi := range instances {
		v := InstanceView{
			ID:      bi.ID,
			Imprint: bi.Imprint,
			Status:  string(bi.Status),
			URL:     bi.URL(),
		}
		if bi.DueBack != nil {
			v.DueBack = bi.DueBack.Format("2006-01-02")
		}
		views = append(views, v)
	}
	return views
}

func newBookView(b *book.Book) BookView {
	v := BookView{
		ID:       b.ID,
		Title:    b.Title,
		AuthorID: b.AuthorID,
		Author:   newAuthorView(b.Author),
		Summary:  b.Summary,
		ISBN:     b.ISBN,
		GenreIDs: b.GenreIDs,
	}
	if len(b.Genres) > 0 {
		v.Genres = newGenreViews(b.Genres, nil)
	}
	if b.ID != "" {
		v.URL = b.URL()
	}
	return v
}
