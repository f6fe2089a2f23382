package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wdbprojects/instamart-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const AccessTokenCookieName = "accessToken"

type AuthMiddleware struct {
	AccessTokenOptions utils.SignOptions
}

// RequireAuth gates authenticated routes on the access token. An expired
// token gets a distinct message from a malformed one, but both are 401.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractAccessToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		}
		claims, err := utils.VerifyToken(token, m.AccessTokenOptions)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		SetAuthContext(c, userID, sessionID)
		return next(c)
	}
}

func extractAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractBearerToken(c.Request())
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
