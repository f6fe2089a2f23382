package handler

import (
	"errors"
	"net/http"

	"github.com/wdbprojects/instamart-backend/api/middleware"
	"github.com/wdbprojects/instamart-backend/internal/dto"
	"github.com/wdbprojects/instamart-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Auth *service.AuthService
}

func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{Auth: auth}
}

func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("not authorized"))
	}
	user, err := h.Auth.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user": dto.UserResponseFromEntity(user),
	})
}
