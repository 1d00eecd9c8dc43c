package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），0表示成功
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// View 渲染指令：视图名 + 视图数据
// 模板层不在本服务内，由前端按View选择页面
type View struct {
	View    string      `json:"view"`
	Payload interface{} `json:"payload"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Render 渲染响应
func Render(c *gin.Context, view string, payload interface{}) {
	Success(c, View{View: view, Payload: payload})
}

// Redirect 提交成功后跳转（303，浏览器改用GET访问新地址）
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Error 错误响应（自动处理AppError）
// HTTP状态码由业务错误码推导：404xx → 404，其余4xxxx → 400，其他 → 500
// 用法：
//
//	outcome, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	status := apperrors.HTTPStatus(appErr.Code)

	// 内部错误只写日志，不返回给客户端；客户端错误（如请求体格式不对）记warn
	if appErr.Err != nil {
		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request failed",
			"code", appErr.Code,
			"path", c.Request.URL.Path,
			"error", appErr.Err,
		)
	}

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}
