package book

import (
	"fmt"

	"github.com/xiebiao/locallibrary/pkg/validation"
)

// 表单字段名
const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldSummary = "summary"
	FieldISBN    = "isbn"
	FieldGenre   = "genre"
)

// Policy 校验策略常量(来自配置 validation.*)
type Policy struct {
	TitleMin   int
	TitleMax   int
	SummaryMax int
}

// DefaultPolicy 标题3~100字符,简介最多500字符
func DefaultPolicy() Policy {
	return Policy{TitleMin: 3, TitleMax: 100, SummaryMax: 500}
}

// CreateRules 新建图书:四个字段都不能为空
func CreateRules() []validation.Rule {
	return []validation.Rule{
		validation.Required(FieldTitle, "Title must not be empty."),
		validation.Required(FieldAuthor, "Author must not be empty."),
		validation.Required(FieldSummary, "Summary must not be empty."),
		validation.Required(FieldISBN, "ISBN must not be empty"),
	}
}

// UpdateRules 更新图书:标题长度、简介长度、ISBN格式
func UpdateRules(p Policy) []validation.Rule {
	return []validation.Rule{
		validation.Length(FieldTitle, p.TitleMin, p.TitleMax,
			fmt.Sprintf("Title can not be shorter than %d and longer than %d characters", p.TitleMin, p.TitleMax)),
		validation.MaxLength(FieldSummary, p.SummaryMax,
			fmt.Sprintf("Summary cannot be longer than %d characters", p.SummaryMax)),
		validation.ISBN(FieldISBN, "Invalid ISBN"),
	}
}

// normalizeForm 复制表单并把genre归一成列表
func normalizeForm(raw validation.Form) validation.Form {
	form := raw.Clone()
	form[FieldGenre] = validation.NormalizeList(raw[FieldGenre])
	return form
}
