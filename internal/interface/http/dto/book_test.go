package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

func newPost(body, contentType string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/catalog/book/create", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", contentType)
	return c
}

func TestBindForm(t *testing.T) {
	t.Run("urlencoded单值和多值", func(t *testing.T) {
		c := newPost("title=Dune&genre=g1&genre=g2", "application/x-www-form-urlencoded")

		form, err := BindForm(c)
		require.NoError(t, err)
		assert.Equal(t, "Dune", form["title"])
		assert.Equal(t, []string{"g1", "g2"}, form["genre"])
	})

	t.Run("urlencoded缺失genre", func(t *testing.T) {
		c := newPost("title=Dune", "application/x-www-form-urlencoded")

		form, err := BindForm(c)
		require.NoError(t, err)
		_, ok := form["genre"]
		assert.False(t, ok)
		assert.Equal(t, []string{}, form.Strings("genre"))
	})

	t.Run("JSON请求体", func(t *testing.T) {
		c := newPost(`{"title":"Dune","genre":["g1","g3"]}`, "application/json; charset=utf-8")

		form, err := BindForm(c)
		require.NoError(t, err)
		assert.Equal(t, "Dune", form.String("title"))
		assert.Equal(t, []string{"g1", "g3"}, form.Strings("genre"))
	})

	t.Run("JSON格式错误", func(t *testing.T) {
		c := newPost(`{"title":`, "application/json")

		_, err := BindForm(c)
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrCodeBindError, appErr.Code)
		assert.Error(t, appErr.Err, "解析错误作为内部原因保留")
	})
}
