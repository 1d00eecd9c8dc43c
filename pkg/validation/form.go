package validation

import (
	"fmt"
	"strings"
)

// Form 提交的原始表单(字段名 → 字符串或字符串列表)
// urlencoded表单和JSON请求体都先转换成Form再进入校验
type Form map[string]any

// String 取标量字段;列表字段取第一个值;缺失返回空串
func (f Form) String(field string) string {
	switch v := f[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case []any:
		if len(v) == 0 {
			return ""
		}
		return toString(v[0])
	default:
		return toString(v)
	}
}

// Strings 取列表字段,形状按NormalizeList归一
func (f Form) Strings(field string) []string {
	return NormalizeList(f[field])
}

// Clone 浅拷贝(列表字段复制一份)
func (f Form) Clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		if list, ok := v.([]string); ok {
			cp := make([]string, len(list))
			copy(cp, list)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// NormalizeList 把多值字段归一成列表
// 缺失 → 空列表;单个值 → 单元素列表;已是列表 → 原样返回
func NormalizeList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{toString(v)}
	}
}

// htmlEscaper 转义HTML特殊字符,外加/ \ `
// 最长的替换是6个字符,清洗后的长度不超过原值的6倍
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// sanitize 去掉首尾空白并转义
func sanitize(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}

// sanitizeValue 按值的形状清洗,列表逐个元素处理
func sanitizeValue(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return sanitize(v)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = sanitize(s)
		}
		return out
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = sanitize(toString(item))
		}
		return out
	default:
		return sanitize(toString(v))
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
