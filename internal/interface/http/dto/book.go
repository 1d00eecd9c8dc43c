package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
	"github.com/xiebiao/locallibrary/pkg/validation"
)

// BookForm 图书表单(仅用于接口文档,处理器实际按字段名读取成validation.Form)
// genre可以缺失、是单个ID或ID列表
type BookForm struct {
	Title   string   `json:"title" form:"title" example:"The Name of the Wind"`
	Author  string   `json:"author" form:"author" example:"0b6f1a9e-5f61-4a43-9c5e-2f3c5e7b2d11"`
	Summary string   `json:"summary" form:"summary" example:"The tale of Kvothe"`
	ISBN    string   `json:"isbn" form:"isbn" example:"9780756404741"`
	Genre   []string `json:"genre" form:"genre"`
}

// BindForm 把请求体读成validation.Form
// 设计说明:
// 1. JSON请求体按原样解析成map(值可以是字符串、数组)
// 2. urlencoded表单:单值字段 → 字符串,多值字段 → []string
// 3. 不在这里做校验,校验和清洗由应用层统一处理
// 请求体无法解析时返回ErrBindError
func BindForm(c *gin.Context) (validation.Form, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		form := validation.Form{}
		if err := c.ShouldBindJSON(&form); err != nil {
			return nil, apperrors.ErrBindError.WithCause(err)
		}
		return form, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, apperrors.ErrBindError.WithCause(err)
	}

	form := validation.Form{}
	for field, values := range c.Request.PostForm {
		switch len(values) {
		case 0:
		case 1:
			form[field] = values[0]
		default:
			form[field] = values
		}
	}
	return form, nil
}
