package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/dto"
	"github.com/wdbprojects/instamart-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	accessTokenCookieName  = "accessToken"
	refreshTokenCookieName = "refreshToken"

	// The refresh cookie only ever travels to the refresh endpoint.
	refreshCookiePath = "/auth/refresh"
)

type AuthHandler struct {
	Auth         *service.AuthService
	Verification *service.VerificationService
	Validate     *validator.Validate

	CookieDomain    string
	SecureCookies   bool
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, verification *service.VerificationService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Auth:            auth,
		Verification:    verification,
		Validate:        validate,
		SecureCookies:   true,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Auth.Register(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return c.JSON(http.StatusCreated, map[string]any{
		"user": dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Auth.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Login successful"})
}

// Logout never fails: whatever the state of the access token, the cookies
// are cleared and the client is signed out.
func (h *AuthHandler) Logout(c echo.Context) error {
	accessToken := readCookie(c, accessTokenCookieName)
	if err := h.Auth.Logout(c.Request().Context(), accessToken, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := readCookie(c, refreshTokenCookieName)
	if refreshToken == "" {
		return writeError(c, http.StatusUnauthorized, errors.New("missing refresh token"))
	}
	result, err := h.Auth.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setAccessCookie(c, result.AccessToken)
	if result.RefreshToken != "" {
		// An empty rotation means "keep your old refresh token"; the
		// cookie must not be overwritten in that case.
		h.setRefreshCookie(c, result.RefreshToken)
	}
	return c.JSON(http.StatusOK, dto.RefreshResponse{
		Message:      "Access token refreshed",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	codeID, err := uuid.Parse(c.Param("code"))
	if err != nil {
		return writeServiceError(c, service.ErrInvalidCode)
	}
	user, err := h.Verification.ConfirmEmailVerification(c.Request().Context(), codeID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Email verification successful",
		"user":    dto.UserResponseFromEntity(user),
	})
}

func (h *AuthHandler) PasswordForgot(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Verification.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset email sent"})
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	codeID, err := uuid.Parse(req.VerificationCode)
	if err != nil {
		return writeServiceError(c, service.ErrCodeNotFound)
	}
	if _, err := h.Verification.ConfirmPasswordReset(c.Request().Context(), codeID, req.Password); err != nil {
		return writeServiceError(c, err)
	}
	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset successful"})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *AuthHandler) setAuthCookies(c echo.Context, accessToken string, refreshToken string) {
	h.setAccessCookie(c, accessToken)
	h.setRefreshCookie(c, refreshToken)
}

func (h *AuthHandler) setAccessCookie(c echo.Context, token string) {
	c.SetCookie(h.buildCookie(accessTokenCookieName, token, "/", h.AccessTokenTTL))
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(h.buildCookie(refreshTokenCookieName, token, refreshCookiePath, h.RefreshTokenTTL))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	access := h.buildCookie(accessTokenCookieName, "", "/", 0)
	access.MaxAge = -1
	c.SetCookie(access)

	refresh := h.buildCookie(refreshTokenCookieName, "", refreshCookiePath, 0)
	refresh.MaxAge = -1
	c.SetCookie(refresh)
}

func (h *AuthHandler) buildCookie(name string, value string, path string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmailInUse):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrInvalidCode):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrTooManyRequests):
		status = http.StatusTooManyRequests
	case errors.Is(err, service.ErrInternal):
		status = http.StatusInternalServerError
	}
	return writeError(c, status, err)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
