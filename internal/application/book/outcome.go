package book

// 视图名(模板层按视图名选择页面)
const (
	ViewIndex      = "index"
	ViewBookList   = "book_list"
	ViewBookDetail = "book_detail"
	ViewBookForm   = "book_form"
	ViewBookUpdate = "book_update"
)

// Outcome 用例的结果:渲染某个视图,或者跳转到某个地址
// 二者只有一个有效;错误通过error返回,不放在Outcome里
type Outcome struct {
	View       string
	Data       interface{}
	RedirectTo string
}

// Render 渲染指令
func Render(view string, data interface{}) *Outcome {
	return &Outcome{View: view, Data: data}
}

// Redirect 跳转指令
func Redirect(location string) *Outcome {
	return &Outcome{RedirectTo: location}
}

// IsRedirect 是否为跳转
func (o *Outcome) IsRedirect() bool {
	return o.RedirectTo != ""
}
