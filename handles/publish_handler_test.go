package handles

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediacms/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishResult(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"validation", services.NewValidationError("分类不存在"), http.StatusBadRequest},
		{"not found", errors.Wrap(services.ErrNotFound, "分类"), http.StatusNotFound},
		{"conflict", errors.Wrap(services.ErrConflict, "演职人员 张三"), http.StatusConflict},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/publish/movie", nil)

			publishResult(c, 42, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
				VideoID uint   `json:"video_id"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.err == nil, body.Success)
			assert.NotEmpty(t, body.Message)
			if tc.err == nil {
				assert.Equal(t, uint(42), body.VideoID)
			} else {
				assert.Zero(t, body.VideoID)
			}
		})
	}
}
