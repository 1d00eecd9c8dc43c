// Package validation 表单校验与清洗
//
// 设计说明:
// 1. 规则是声明式的有序列表:字段 + 约束(validator tag) + 提示信息
// 2. 清洗(去空白、转义HTML)对所有字段都执行,与校验结果无关;持久化的是清洗后的值
// 3. 收集全部失败规则(不是遇到第一个就停),顺序与规则顺序一致
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Rule 单条字段规则
type Rule struct {
	Field      string
	Constraint string // validator tag,如 "required"、"min=3,max=100"、"isbn"
	Message    string
}

// Required 非空
func Required(field, message string) Rule {
	return Rule{Field: field, Constraint: "required", Message: message}
}

// Length 长度在[min,max]之间(按字符计)
func Length(field string, min, max int, message string) Rule {
	return Rule{Field: field, Constraint: fmt.Sprintf("min=%d,max=%d", min, max), Message: message}
}

// MaxLength 长度不超过max
func MaxLength(field string, max int, message string) Rule {
	return Rule{Field: field, Constraint: fmt.Sprintf("max=%d", max), Message: message}
}

// ISBN 合法的ISBN-10或ISBN-13
func ISBN(field, message string) Rule {
	return Rule{Field: field, Constraint: "isbn", Message: message}
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
	Value   string `json:"value"`
}

// Errors 校验错误列表(按规则顺序)
type Errors []FieldError

// Empty 没有错误,即提交可以接受
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields 出错的字段(去重,保持顺序)
func (e Errors) Fields() []string {
	seen := make(map[string]bool, len(e))
	fields := make([]string, 0, len(e))
	for _, fe := range e {
		if seen[fe.Field] {
			continue
		}
		seen[fe.Field] = true
		fields = append(fields, fe.Field)
	}
	return fields
}

// Mapped 字段 → 该字段的第一个错误
func (e Errors) Mapped() map[string]FieldError {
	m := make(map[string]FieldError, len(e))
	for _, fe := range e {
		if _, ok := m[fe.Field]; !ok {
			m[fe.Field] = fe
		}
	}
	return m
}

// Validate 校验并清洗表单
// 返回清洗后的表单(所有字段)和错误列表;校验作用于去掉首尾空白后的值
func Validate(form Form, rules []Rule) (Form, Errors) {
	var errs Errors
	for _, r := range rules {
		value := strings.TrimSpace(form.String(r.Field))
		if err := engine().Var(value, r.Constraint); err != nil {
			errs = append(errs, FieldError{
				Field:   r.Field,
				Message: r.Message,
				Value:   sanitize(value),
			})
		}
	}

	sanitized := make(Form, len(form))
	for k, v := range form {
		sanitized[k] = sanitizeValue(v)
	}
	return sanitized, errs
}
