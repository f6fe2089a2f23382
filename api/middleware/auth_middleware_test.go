package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthMiddleware() AuthMiddleware {
	return AuthMiddleware{
		AccessTokenOptions: utils.SignOptions{
			Secret:    []byte("test-access-secret"),
			ExpiresIn: 15 * time.Minute,
			Audience:  utils.TokenAudience,
		},
	}
}

func invoke(t *testing.T, m AuthMiddleware, cookie *http.Cookie) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := m.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestRequireAuthMissingToken(t *testing.T) {
	_, err := invoke(t, testAuthMiddleware(), nil)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "not authorized", httpErr.Message)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	m := testAuthMiddleware()
	token, err := utils.SignToken(uuid.NewString(), uuid.NewString(), time.Now().Add(-time.Hour), m.AccessTokenOptions)
	require.NoError(t, err)

	_, handlerErr := invoke(t, m, &http.Cookie{Name: AccessTokenCookieName, Value: token})
	var httpErr *echo.HTTPError
	require.ErrorAs(t, handlerErr, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "token expired", httpErr.Message)
}

func TestRequireAuthMalformedToken(t *testing.T) {
	_, handlerErr := invoke(t, testAuthMiddleware(), &http.Cookie{Name: AccessTokenCookieName, Value: "garbage"})
	var httpErr *echo.HTTPError
	require.ErrorAs(t, handlerErr, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid token", httpErr.Message)
}

func TestRequireAuthSetsContext(t *testing.T) {
	m := testAuthMiddleware()
	userID := uuid.New()
	sessionID := uuid.New()
	token, err := utils.SignToken(userID.String(), sessionID.String(), time.Now(), m.AccessTokenOptions)
	require.NoError(t, err)

	c, handlerErr := invoke(t, m, &http.Cookie{Name: AccessTokenCookieName, Value: token})
	require.NoError(t, handlerErr)

	gotUser, ok := UserIDFromContext(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotUser)
	gotSession, ok := SessionIDFromContext(c)
	require.True(t, ok)
	assert.Equal(t, sessionID, gotSession)
}
