package book

import (
	"context"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/tracing"
	"github.com/xiebiao/locallibrary/pkg/validation"
)

const createFormTitle = "Create Book"

// CreateBookUseCase 新建图书用例
// 设计说明:
// 1. GET:读取全部作者和分类,渲染空表单
// 2. POST:归一genre → 清洗+校验 → 用清洗后的值构造图书
// 3. 校验失败:重新读取引用数据,勾选提交的分类,带着提交的值和错误重新渲染,不保存
// 4. 校验通过:保存后跳转到详情页;保存失败直接返回错误
// 5. 不检查作者ID、分类ID是否真实存在(悬空引用在详情页表现为没有作者)
type CreateBookUseCase struct {
	agg       *Aggregator
	books     book.Repository
	rules     []validation.Rule
	publisher EventPublisher
}

// NewCreateBookUseCase 创建新建图书用例
// publisher可以为nil(不发布事件)
func NewCreateBookUseCase(agg *Aggregator, books book.Repository, publisher EventPublisher) *CreateBookUseCase {
	return &CreateBookUseCase{
		agg:       agg,
		books:     books,
		rules:     CreateRules(),
		publisher: publisher,
	}
}

// CreateBookRequest 新建图书请求
type CreateBookRequest struct {
	Form validation.Form
}

// Form 渲染空的新建表单
func (uc *CreateBookUseCase) Form(ctx context.Context) (*Outcome, error) {
	refs, err := uc.agg.FormReferences(ctx)
	if err != nil {
		return nil, err
	}

	return Render(ViewBookForm, BookFormPayload{
		Title:   createFormTitle,
		Authors: newAuthorViews(refs.Authors),
		Genres:  newGenreViews(refs.Genres, nil),
	}), nil
}

// Submit 处理新建表单提交
func (uc *CreateBookUseCase) Submit(ctx context.Context, req CreateBookRequest) (_ *Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.CreateBook")
	defer func() { tracing.EndSpan(span, err) }()

	form, errs := validation.Validate(normalizeForm(req.Form), uc.rules)

	b := book.NewBook(
		form.String(FieldTitle),
		form.String(FieldAuthor),
		form.String(FieldSummary),
		form.String(FieldISBN),
		form.Strings(FieldGenre),
	)

	if !errs.Empty() {
		metrics.RecordValidationFailure(ViewBookForm)

		refs, err := uc.agg.FormReferences(ctx)
		if err != nil {
			return nil, err
		}

		view := newBookView(b)
		return Render(ViewBookForm, BookFormPayload{
			Title:   createFormTitle,
			Authors: newAuthorViews(refs.Authors),
			Genres: newGenreViews(refs.Genres, func(g *genre.Genre) bool {
				return b.HasGenreID(g.ID)
			}),
			Book:   &view,
			Errors: errs,
		}), nil
	}

	err = uc.books.Save(ctx, b)
	metrics.RecordBookWrite("create", err)
	if err != nil {
		return nil, err
	}

	publishBookEvent(ctx, uc.publisher, RoutingKeyBookCreated, b)
	return Redirect(b.URL()), nil
}
