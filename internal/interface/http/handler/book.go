package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/locallibrary/internal/application/book"
	"github.com/xiebiao/locallibrary/internal/interface/http/dto"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// BookHandler 图书HTTP处理器
// 处理器只做三件事:从请求取出ID/表单,调用用例,把Outcome交给response
type BookHandler struct {
	dashboard *appbook.DashboardUseCase
	list      *appbook.ListBooksUseCase
	detail    *appbook.BookDetailUseCase
	create    *appbook.CreateBookUseCase
	update    *appbook.UpdateBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	dashboard *appbook.DashboardUseCase,
	list *appbook.ListBooksUseCase,
	detail *appbook.BookDetailUseCase,
	create *appbook.CreateBookUseCase,
	update *appbook.UpdateBookUseCase,
) *BookHandler {
	return &BookHandler{
		dashboard: dashboard,
		list:      list,
		detail:    detail,
		create:    create,
		update:    update,
	}
}

// Index 首页统计
// @Summary      首页统计
// @Description  图书、副本、可借副本、作者、分类的数量
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=response.View{payload=appbook.IndexPayload}}
// @Failure      500 {object} response.Response "数据库错误"
// @Router       /catalog [get]
func (h *BookHandler) Index(c *gin.Context) {
	outcome, err := h.dashboard.Execute(c.Request.Context())
	respond(c, outcome, err)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=response.View{payload=appbook.BookListPayload}}
// @Failure      500 {object} response.Response "数据库错误"
// @Router       /catalog/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	outcome, err := h.list.Execute(c.Request.Context())
	respond(c, outcome, err)
}

// Detail 图书详情
// @Summary      图书详情
// @Description  图书(含作者、分类)及其全部副本
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=response.View{payload=appbook.BookDetailPayload}}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /catalog/book/{id} [get]
func (h *BookHandler) Detail(c *gin.Context) {
	outcome, err := h.detail.Execute(c.Request.Context(), appbook.BookDetailRequest{
		ID: c.Param("id"),
	})
	respond(c, outcome, err)
}

// CreateForm 新建图书表单
// @Summary      新建图书表单
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=response.View{payload=appbook.BookFormPayload}}
// @Router       /catalog/book/create [get]
func (h *BookHandler) CreateForm(c *gin.Context) {
	outcome, err := h.create.Form(c.Request.Context())
	respond(c, outcome, err)
}

// Create 提交新建图书
// @Summary      新建图书
// @Description  校验通过后保存并303跳转到详情页;校验失败重新渲染表单
// @Tags         图书
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        request body dto.BookForm true "图书表单"
// @Success      200 {object} response.Response{data=response.View{payload=appbook.BookFormPayload}} "校验未通过"
// @Success      303 "跳转到图书详情"
// @Failure      400 {object} response.Response "参数格式错误"
// @Failure      500 {object} response.Response "数据库错误"
// @Router       /catalog/book/create [post]
func (h *BookHandler) Create(c *gin.Context) {
	form, err := dto.BindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	outcome, err := h.create.Submit(c.Request.Context(), appbook.CreateBookRequest{Form: form})
	respond(c, outcome, err)
}

// UpdateForm 更新图书表单
// @Summary      更新图书表单
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=response.View{payload=appbook.BookUpdatePayload}}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /catalog/book/{id}/update [get]
func (h *BookHandler) UpdateForm(c *gin.Context) {
	outcome, err := h.update.Form(c.Request.Context(), appbook.UpdateFormRequest{
		ID: c.Param("id"),
	})
	respond(c, outcome, err)
}

// Update 提交更新图书
// @Summary      更新图书
// @Description  覆盖标题、简介、ISBN和分类(作者不可修改)
// @Tags         图书
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        id path string true "图书ID"
// @Param        request body dto.BookForm true "图书表单"
// @Success      200 {object} response.Response{data=response.View{payload=appbook.BookUpdatePayload}} "校验未通过"
// @Success      303 "跳转到图书详情"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      500 {object} response.Response "数据库错误"
// @Router       /catalog/book/{id}/update [post]
func (h *BookHandler) Update(c *gin.Context) {
	form, err := dto.BindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	outcome, err := h.update.Submit(c.Request.Context(), appbook.UpdateBookRequest{
		ID:   c.Param("id"),
		Form: form,
	})
	respond(c, outcome, err)
}

// respond Outcome → HTTP响应
func respond(c *gin.Context, outcome *appbook.Outcome, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if outcome.IsRedirect() {
		response.Redirect(c, outcome.RedirectTo)
		return
	}
	response.Render(c, outcome.View, outcome.Data)
}
