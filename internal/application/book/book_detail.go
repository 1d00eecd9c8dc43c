package book

import (
	"context"

	"github.com/xiebiao/locallibrary/pkg/tracing"
)

// BookDetailUseCase 图书详情用例
type BookDetailUseCase struct {
	agg *Aggregator
}

// NewBookDetailUseCase 创建详情用例
func NewBookDetailUseCase(agg *Aggregator) *BookDetailUseCase {
	return &BookDetailUseCase{agg: agg}
}

// BookDetailRequest 详情请求
type BookDetailRequest struct {
	ID string
}

// Execute 读取图书(作者、分类已填充)及其副本
// 图书不存在返回book.ErrBookNotFound
func (uc *BookDetailUseCase) Execute(ctx context.Context, req BookDetailRequest) (_ *Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.BookDetail")
	defer func() { tracing.EndSpan(span, err) }()

	detail, err := uc.agg.BookDetail(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return Render(ViewBookDetail, BookDetailPayload{
		Title:     detail.Book.Title,
		Book:      newBookView(detail.Book),
		Instances: newInstanceViews(detail.Instances),
	}), nil
}
