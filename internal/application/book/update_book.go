package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/tracing"
	"github.com/xiebiao/locallibrary/pkg/validation"
)

const updateFormTitle = "Update Book"

// UpdateBookUseCase 更新图书用例
// 设计说明:
// 1. GET:并发读取图书和全部分类,按分类名称勾选图书已有的分类
// 2. POST:归一genre → 清洗+校验(与新建一样清洗) → 重新读取图书和分类 → 覆盖字段 → 按分类ID勾选
// 3. 图书不存在时两条路径都返回book.ErrBookNotFound
// 4. 校验失败重新渲染(错误按字段索引),不保存;保存失败记日志并返回错误
// 5. 作者不可通过更新修改
type UpdateBookUseCase struct {
	agg       *Aggregator
	books     book.Repository
	rules     []validation.Rule
	publisher EventPublisher
}

// NewUpdateBookUseCase 创建更新图书用例
func NewUpdateBookUseCase(agg *Aggregator, books book.Repository, policy Policy, publisher EventPublisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		agg:       agg,
		books:     books,
		rules:     UpdateRules(policy),
		publisher: publisher,
	}
}

// UpdateFormRequest 打开更新表单的请求
type UpdateFormRequest struct {
	ID string
}

// UpdateBookRequest 更新表单提交
type UpdateBookRequest struct {
	ID   string
	Form validation.Form
}

// Form 渲染更新表单(填入当前值)
func (uc *UpdateBookUseCase) Form(ctx context.Context, req UpdateFormRequest) (*Outcome, error) {
	edit, err := uc.agg.BookForEdit(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	b := edit.Book
	return Render(ViewBookUpdate, BookUpdatePayload{
		Title: updateFormTitle,
		Book:  newBookView(b),
		Genres: newGenreViews(edit.Genres, func(g *genre.Genre) bool {
			return b.HasGenreNamed(g.Name)
		}),
	}), nil
}

// Submit 处理更新表单提交
func (uc *UpdateBookUseCase) Submit(ctx context.Context, req UpdateBookRequest) (_ *Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.UpdateBook")
	defer func() { tracing.EndSpan(span, err) }()

	form, errs := validation.Validate(normalizeForm(req.Form), uc.rules)

	edit, err := uc.agg.BookForEdit(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	b := edit.Book
	b.Overwrite(
		form.String(FieldTitle),
		form.String(FieldSummary),
		form.String(FieldISBN),
		form.Strings(FieldGenre),
	)
	genres := newGenreViews(edit.Genres, func(g *genre.Genre) bool {
		return b.HasGenreID(g.ID)
	})

	if !errs.Empty() {
		metrics.RecordValidationFailure(ViewBookUpdate)
		return Render(ViewBookUpdate, BookUpdatePayload{
			Title:  updateFormTitle,
			Book:   newBookView(b),
			Genres: genres,
			Errors: errs.Mapped(),
		}), nil
	}

	err = uc.books.Save(ctx, b)
	metrics.RecordBookWrite("update", err)
	if err != nil {
		slog.ErrorContext(ctx, "保存图书失败",
			"book_id", b.ID,
			"trace_id", tracing.ExtractTraceID(ctx),
			"error", err,
		)
		return nil, err
	}

	publishBookEvent(ctx, uc.publisher, RoutingKeyBookUpdated, b)
	return Redirect(b.URL()), nil
}
