package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"skillswap/api/internal/repository"
	"skillswap/api/internal/service"
)

func respondErrorResult(t *testing.T, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/probe", nil)

	var h HandlerSet
	h.respondError(c, err)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec.Code, body.Error
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{repository.ErrUserNotFound, http.StatusNotFound, "not_found"},
		{repository.ErrSwapNotFound, http.StatusNotFound, "not_found"},
		{repository.ErrMessageNotFound, http.StatusNotFound, "not_found"},
		{repository.ErrSessionNotFound, http.StatusNotFound, "not_found"},
		{service.ErrInvalidResetToken, http.StatusNotFound, "invalid_reset_token"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{service.ErrUserBanned, http.StatusForbidden, "user_banned"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{service.ErrInvalidTransition, http.StatusBadRequest, "invalid_transition"},
		{service.ErrInvalidRating, http.StatusBadRequest, "invalid_rating"},
		{service.ErrAlreadyRated, http.StatusBadRequest, "already_rated"},
		{service.ErrDuplicatePending, http.StatusBadRequest, "duplicate_pending"},
		{service.ErrSelfRequest, http.StatusBadRequest, "self_request"},
		{service.ErrCannotBanAdmin, http.StatusBadRequest, "cannot_ban_admin"},
		{service.ErrEmailTaken, http.StatusBadRequest, "email_taken"},
		{service.ErrUsernameTaken, http.StatusBadRequest, "username_taken"},
		{service.ErrValidation, http.StatusBadRequest, "validation"},
		{service.ErrInconsistency, http.StatusInternalServerError, "inconsistency"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tc := range cases {
		status, code := respondErrorResult(t, tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("%v: got (%d, %q), want (%d, %q)", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestRespondErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: cannot accept a completed swap", service.ErrInvalidTransition)
	status, code := respondErrorResult(t, wrapped)
	if status != http.StatusBadRequest || code != "invalid_transition" {
		t.Fatalf("wrapped sentinel: got (%d, %q)", status, code)
	}
}

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query  string
		limit  int
		offset int
		page   int
	}{
		{"", 20, 0, 1},
		{"?page=3&perPage=10", 10, 20, 3},
		{"?page=0&perPage=0", 20, 0, 1},
		{"?perPage=9999", 20, 0, 1},
		{"?page=-4", 20, 0, 1},
		{"?page=abc&perPage=xyz", 20, 0, 1},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/probe"+tc.query, nil)

		limit, offset, page := pagination(c, 20, 100)
		if limit != tc.limit || offset != tc.offset || page != tc.page {
			t.Errorf("%q: got (%d, %d, %d), want (%d, %d, %d)",
				tc.query, limit, offset, page, tc.limit, tc.offset, tc.page)
		}
	}
}
