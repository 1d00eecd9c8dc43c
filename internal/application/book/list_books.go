package book

import (
	"context"

	"github.com/xiebiao/locallibrary/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
// 设计说明:
// 1. 只投影标题和作者,列表页不需要简介、ISBN
// 2. 填充作者用于显示"姓, 名"
// 3. 不分页
type ListBooksUseCase struct {
	books book.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(books book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{books: books}
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context) (*Outcome, error) {
	list, err := uc.books.Find(ctx, book.Filter{},
		book.WithFields(book.FieldTitle, book.FieldAuthor),
		book.WithAuthor(),
	)
	if err != nil {
		return nil, err
	}

	views := make([]BookView, 0, len(list))
	for _, b := range list {
		views = append(views, newBookView(b))
	}

	return Render(ViewBookList, BookListPayload{
		Title: "Book List",
		Books: views,
	}), nil
}
