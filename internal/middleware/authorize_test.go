package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"skillswap/api/internal/models"
)

func runRequireRoles(t *testing.T, user *models.User, roles ...models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	router := gin.New()
	router.GET("/probe", func(c *gin.Context) {
		if user != nil {
			c.Set("current_user", *user)
		}
		c.Next()
	}, RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	rec := runRequireRoles(t, &models.User{ID: "u1", Role: models.UserRoleAdmin}, models.UserRoleAdmin)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	rec := runRequireRoles(t, &models.User{ID: "u1", Role: models.UserRoleUser}, models.UserRoleAdmin)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRolesWithoutUser(t *testing.T) {
	rec := runRequireRoles(t, nil, models.UserRoleAdmin)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
