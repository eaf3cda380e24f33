package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.Middleware(secret))
	r.POST("/protected", func(c *gin.Context) {
		claims, ok := auth.GetClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Subject)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	valid, err := auth.IssueToken(secret, "operator", time.Hour)
	require.NoError(t, err)
	expired, err := auth.IssueToken(secret, "operator", -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.IssueToken("other-secret", "operator", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"foreign secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	router := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/protected", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "operator", w.Body.String())
			}
		})
	}
}

func TestIssueToken_EmptySecret(t *testing.T) {
	_, err := auth.IssueToken("", "operator", time.Hour)
	assert.Error(t, err)
}
