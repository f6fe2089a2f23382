package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wdbprojects/instamart-backend/internal/repository/memory"
	"github.com/wdbprojects/instamart-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler() *AuthHandler {
	users := memory.NewUserRepository()
	sessions := memory.NewSessionRepository()
	codes := memory.NewVerificationCodeRepository()
	hasher := service.BcryptPasswordHasher{Cost: bcrypt.MinCost}
	cfg := service.AuthConfig{
		AccessTokenSecret:  []byte("test-access-secret"),
		RefreshTokenSecret: []byte("test-refresh-secret"),
		AppOrigin:          "https://app.example.com",
	}
	auth := service.NewAuthService(users, sessions, codes, nil, nil, hasher, service.RealClock{}, cfg)
	verification := service.NewVerificationService(users, sessions, codes, nil, nil, hasher, service.RealClock{}, cfg)
	return NewAuthHandler(auth, verification, validator.New())
}

func doRequest(t *testing.T, h echo.HandlerFunc, method string, target string, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

const registerBody = `{"firstName":"Alice","lastName":"Smith","email":"a@x.com","password":"password1","confirmPassword":"password1"}`

func TestRegisterSetsAuthCookies(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h.Register, http.MethodPost, "/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":false`)
	assert.NotContains(t, rec.Body.String(), "password")

	cookies := rec.Result().Cookies()
	access := cookieByName(cookies, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := cookieByName(cookies, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, "/auth/refresh", refresh.Path)
	assert.True(t, refresh.HttpOnly)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := newTestHandler()

	body := `{"firstName":"Alice","lastName":"Smith","email":"a@x.com","password":"password1","confirmPassword":"password2"}`
	rec := doRequest(t, h.Register, http.MethodPost, "/auth/register", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h.Register, http.MethodPost, "/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h.Login, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong-pass"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestRefreshWithoutCookie(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h.Refresh, http.MethodGet, "/auth/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshKeepsRefreshCookieWhenNotRotating(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h.Register, http.MethodPost, "/auth/register", registerBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	refresh := cookieByName(rec.Result().Cookies(), "refreshToken")
	require.NotNil(t, refresh)

	rec = doRequest(t, h.Refresh, http.MethodGet, "/auth/refresh", "", []*http.Cookie{
		{Name: "refreshToken", Value: refresh.Value},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	assert.NotNil(t, cookieByName(cookies, "accessToken"))
	// Fresh session, so no rotation happened and the refresh cookie must
	// not be overwritten.
	assert.Nil(t, cookieByName(cookies, "refreshToken"))
}

func TestLogoutClearsCookiesWithoutValidToken(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h.Logout, http.MethodGet, "/auth/logout", "", []*http.Cookie{
		{Name: "accessToken", Value: "garbage"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	access := cookieByName(cookies, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, -1, access.MaxAge)
	refresh := cookieByName(cookies, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, -1, refresh.MaxAge)
}
