package handler

import (
	"errors"
	"net/http"

	"github.com/wdbprojects/instamart-backend/api/middleware"
	"github.com/wdbprojects/instamart-backend/internal/dto"
	"github.com/wdbprojects/instamart-backend/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	Auth *service.AuthService
}

func NewSessionHandler(auth *service.AuthService) *SessionHandler {
	return &SessionHandler{Auth: auth}
}

func (h *SessionHandler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("not authorized"))
	}
	sessionID, _ := middleware.SessionIDFromContext(c)

	sessions, err := h.Auth.ListSessions(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SessionResponsesFromEntities(sessions, sessionID.String()))
}

func (h *SessionHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("not authorized"))
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeServiceError(c, service.ErrSessionNotFound)
	}
	if err := h.Auth.RevokeSession(c.Request().Context(), userID, sessionID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Session removed"})
}
