package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"skillswap/api/internal/config"
	"skillswap/api/internal/middleware"
	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
	"skillswap/api/internal/service"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	db    *pgxpool.Pool
	cache *redis.Client

	users    *repository.UserRepository
	sessions *repository.SessionRepository

	authService  *service.AuthService
	userService  *service.UserService
	swapService  *service.SwapService
	adminService *service.AdminService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		db:           db,
		cache:        cache,
		users:        userRepo,
		sessions:     sessionRepo,
		authService:  service.NewAuthService(userRepo, sessionRepo, cfg, log),
		userService:  service.NewUserService(userRepo, log),
		swapService:  service.NewSwapService(swapRepo, userRepo, log),
		adminService: service.NewAdminService(userRepo, swapRepo, messageRepo, cache, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password/:token", h.ResetPassword)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.cfg, h.users, h.sessions))
		protected.GET("/me", h.Me)
		protected.GET("/sessions", h.ListSessions)
		protected.DELETE("/sessions/:deviceId", h.RevokeSession)
	}

	users := v1.Group("/users")
	users.Use(middleware.Auth(h.cfg, h.users, h.sessions))
	{
		users.GET("", h.BrowseUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/me/profile", h.UpdateProfile)
		users.PUT("/me/skills", h.UpdateSkills)
	}

	messages := v1.Group("/messages")
	messages.Use(middleware.Auth(h.cfg, h.users, h.sessions))
	{
		messages.GET("", h.ActiveMessages)
		messages.POST("/:id/read", h.MarkMessageRead)
	}

	swaps := v1.Group("/swaps")
	swaps.Use(
		middleware.Auth(h.cfg, h.users, h.sessions),
		middleware.Signature(h.cfg, h.cache),
	)
	{
		swaps.POST("", h.CreateSwap)
		swaps.GET("", h.ListSwaps)
		swaps.GET("/:id", h.GetSwap)
		swaps.PUT("/:id/status", h.SetSwapStatus)
		swaps.DELETE("/:id", h.CancelSwap)
		swaps.PUT("/:id/complete", h.CompleteSwap)
		swaps.PUT("/:id/rate", h.RateSwap)
		swaps.PUT("/:id/report", h.ReportSwap)
	}

	admin := v1.Group("/admin")
	admin.Use(
		middleware.Auth(h.cfg, h.users, h.sessions),
		middleware.Signature(h.cfg, h.cache),
		middleware.RequireRoles(models.UserRoleAdmin),
	)
	{
		admin.GET("/dashboard", h.AdminDashboard)
		admin.GET("/users", h.AdminListUsers)
		admin.PUT("/users/:id/ban", h.AdminBanUser)
		admin.PUT("/users/:id/skills", h.AdminModerateSkills)
		admin.GET("/swaps", h.AdminListSwaps)
		admin.POST("/messages", h.AdminCreateMessage)
		admin.GET("/messages", h.AdminListMessages)
		admin.PUT("/messages/:id", h.AdminUpdateMessage)
		admin.GET("/reports", h.AdminReports)
		admin.GET("/reports/:type", h.AdminReportCSV)
	}
}

// respondError translates domain conditions into HTTP responses with a
// stable machine-checkable code.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	type mapping struct {
		status int
		code   string
	}

	var m mapping
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		m = mapping{http.StatusNotFound, "not_found"}
	case errors.Is(err, repository.ErrSwapNotFound):
		m = mapping{http.StatusNotFound, "not_found"}
	case errors.Is(err, repository.ErrMessageNotFound):
		m = mapping{http.StatusNotFound, "not_found"}
	case errors.Is(err, repository.ErrSessionNotFound):
		m = mapping{http.StatusNotFound, "not_found"}
	case errors.Is(err, service.ErrInvalidResetToken):
		m = mapping{http.StatusNotFound, "invalid_reset_token"}
	case errors.Is(err, service.ErrForbidden):
		m = mapping{http.StatusForbidden, "forbidden"}
	case errors.Is(err, service.ErrUserBanned):
		m = mapping{http.StatusForbidden, "user_banned"}
	case errors.Is(err, service.ErrInvalidCredentials):
		m = mapping{http.StatusUnauthorized, "invalid_credentials"}
	case errors.Is(err, service.ErrInvalidTransition):
		m = mapping{http.StatusBadRequest, "invalid_transition"}
	case errors.Is(err, service.ErrInvalidRating):
		m = mapping{http.StatusBadRequest, "invalid_rating"}
	case errors.Is(err, service.ErrAlreadyRated):
		m = mapping{http.StatusBadRequest, "already_rated"}
	case errors.Is(err, service.ErrDuplicatePending):
		m = mapping{http.StatusBadRequest, "duplicate_pending"}
	case errors.Is(err, service.ErrSelfRequest):
		m = mapping{http.StatusBadRequest, "self_request"}
	case errors.Is(err, service.ErrCannotBanAdmin):
		m = mapping{http.StatusBadRequest, "cannot_ban_admin"}
	case errors.Is(err, service.ErrEmailTaken):
		m = mapping{http.StatusBadRequest, "email_taken"}
	case errors.Is(err, service.ErrUsernameTaken):
		m = mapping{http.StatusBadRequest, "username_taken"}
	case errors.Is(err, service.ErrValidation):
		m = mapping{http.StatusBadRequest, "validation"}
	case errors.Is(err, service.ErrInconsistency):
		m = mapping{http.StatusInternalServerError, "inconsistency"}
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(m.status, gin.H{"error": m.code, "message": err.Error()})
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("current_user")
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

// pagination reads ?page/?perPage the way the rest of the API expects them.
func pagination(c *gin.Context, defaultPerPage, maxPerPage int) (limit, offset, page int) {
	limit = defaultPerPage
	page = 1

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= maxPerPage {
			limit = v
		}
	}
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 1 {
			page = v
			offset = (v - 1) * limit
		}
	}
	return limit, offset, page
}

func paginationMeta(page, limit, total int) gin.H {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": pages,
	}
}
