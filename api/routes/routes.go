package routes

import (
	"net/http"
	"time"

	"github.com/wdbprojects/instamart-backend/api/handler"
	"github.com/wdbprojects/instamart-backend/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Sessions       *handler.SessionHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	sessionHandler *handler.SessionHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Users:          userHandler,
		Sessions:       sessionHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.GET("/auth/logout", r.Auth.Logout)
	e.GET("/auth/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	e.GET("/auth/email/verify/:code", r.Auth.VerifyEmail, r.AuthRate.Middleware())
	e.POST("/auth/password/forgot", r.Auth.PasswordForgot, r.LoginRate.Middleware())
	e.POST("/auth/password/reset", r.Auth.PasswordReset, r.AuthRate.Middleware())

	e.GET("/user", r.Users.Me, r.AuthMiddleware.RequireAuth)
	e.GET("/sessions", r.Sessions.List, r.AuthMiddleware.RequireAuth)
	e.DELETE("/sessions/:id", r.Sessions.Delete, r.AuthMiddleware.RequireAuth)
}
