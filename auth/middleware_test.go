package auth

import (
	"net/http"
	"net/http/httptest"
	"salonbook-backend/models"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(issuer *TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", Middleware(issuer), Require(SalonMember))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": ActorFrom(c).UserID.String()})
	})
	api.GET("/reports", Require(SalonManager), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func serve(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 15*time.Minute)
	r := newTestRouter(issuer)

	staff := staffUser()
	staffToken, err := issuer.Issue(staff)
	require.NoError(t, err)
	salonID := uuid.New()
	ownerToken, err := issuer.Issue(&models.User{ID: uuid.New(), Role: models.RoleSalonAdmin, SalonID: &salonID})
	require.NoError(t, err)
	adminToken, err := issuer.Issue(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/api/me", "", http.StatusUnauthorized},
		{"garbage token", "/api/me", "Bearer nope", http.StatusUnauthorized},
		{"staff", "/api/me", "Bearer " + staffToken, http.StatusOK},
		{"lowercase scheme", "/api/me", "bearer " + staffToken, http.StatusOK},
		{"bare token", "/api/me", staffToken, http.StatusOK},
		{"platform admin is not a salon member", "/api/me", "Bearer " + adminToken, http.StatusForbidden},
		{"staff cannot see reports", "/api/reports", "Bearer " + staffToken, http.StatusForbidden},
		{"owner sees reports", "/api/reports", "Bearer " + ownerToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.path, tt.header)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := serve(r, "/api/me", "Bearer "+staffToken)
	assert.JSONEq(t, `{"user_id":"`+staff.ID.String()+`"}`, w.Body.String())
}
