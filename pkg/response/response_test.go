package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/catalog", nil)
	return c, rec
}

func TestRender(t *testing.T) {
	c, rec := newContext()

	Render(c, "index", gin.H{"book_count": 3})

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Code int  `json:"code"`
		Data View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "index", body.Data.View)
}

func TestRedirect(t *testing.T) {
	c, rec := newContext()

	Redirect(c, "/catalog/book/b1")
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/catalog/book/b1", rec.Header().Get("Location"))
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"资源不存在", apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在"), http.StatusNotFound, apperrors.ErrCodeBookNotFound},
		{"存储错误", apperrors.WrapStore(errors.New("dial tcp"), "查询图书失败"), http.StatusInternalServerError, apperrors.ErrCodeDatabaseError},
		{"普通错误", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext()
			Error(c, tt.err)

			assert.Equal(t, tt.wantHTTP, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, rec.Body.String(), "dial tcp", "内部错误不返回给客户端")
		})
	}
}
