package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		inbound  string
		keepsOwn bool
	}{
		{name: "generated when missing", inbound: "", keepsOwn: false},
		{name: "inbound reused", inbound: "req-42", keepsOwn: true},
		{name: "too long replaced", inbound: strings.Repeat("a", maxLength+1), keepsOwn: false},
		{name: "control characters replaced", inbound: "bad\nid", keepsOwn: false},
		{name: "spaces replaced", inbound: "two words", keepsOwn: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var fromGin, fromCtx string
			router := gin.New()
			router.Use(Middleware())
			router.GET("/", func(c *gin.Context) {
				fromGin = Value(c)
				fromCtx = FromContext(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set(headerKey, tc.inbound)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			header := rec.Header().Get(headerKey)
			assert.Equal(t, header, fromGin)
			assert.Equal(t, header, fromCtx)
			if tc.keepsOwn {
				assert.Equal(t, tc.inbound, header)
				return
			}
			_, err := uuid.Parse(header)
			assert.NoError(t, err)
		})
	}
}

func TestFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, FromContext(req.Context()))
}
