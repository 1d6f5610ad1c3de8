package handler

import (
	"net/http"

	"coursematch.com/backend/internal/modules/user/dto"
	user "coursematch.com/backend/internal/modules/user/service"
	"coursematch.com/backend/pkg/response"
	"coursematch.com/backend/pkg/session"
	"coursematch.com/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService user.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService user.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		response.Text(c, http.StatusBadRequest, "LoginFailed")
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err, "LoginFailed")
		return
	}

	h.sessions.WriteCookie(c, sess.Token, sess.Claims)
	response.Text(c, http.StatusOK, "LoggedIn")
}

// Status never fails; it only reports whether a valid session came along.
func (h *AuthHandler) Status(c *gin.Context) {
	if _, ok := session.FromContext(c); ok {
		response.Text(c, http.StatusOK, "Authenticated")
		return
	}
	response.Text(c, http.StatusOK, "NotAuthenticated")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	info, err := h.authService.UserInfo(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		response.Text(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	sess, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	h.sessions.WriteCookie(c, sess.Token, sess.Claims)
	response.Text(c, http.StatusOK, "UserRegistered")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := session.FromContext(c)
	if !ok {
		response.Text(c, http.StatusUnauthorized, "NotAuthenticated")
		return
	}

	ended, err := h.authService.Logout(c.Request.Context(), claims)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}
	if !ended {
		response.Text(c, http.StatusOK, "RedirectOnly")
		return
	}

	h.sessions.ClearCookie(c)
	response.Text(c, http.StatusOK, "LoggedOut")
}
