package handler

import (
	"net/http"

	"coursematch.com/backend/internal/modules/social/dto"
	social "coursematch.com/backend/internal/modules/social/service"
	"coursematch.com/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	socialService social.SocialService
}

func NewSocialHandler(socialService social.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func bindUsername(c *gin.Context) string {
	var input dto.UsernameInput
	_ = c.ShouldBind(&input)
	if input.Username == "" {
		input.Username = c.Query("username")
	}
	return input.Username
}

func (h *SocialHandler) SearchProfiles(c *gin.Context) {
	students, err := h.socialService.SearchProfiles(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.StudentListResponse{Data: students})
}

func (h *SocialHandler) Follow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	if err := h.socialService.FollowProfile(c.Request.Context(), userID, bindUsername(c)); err != nil {
		response.ResponseError(c, err, "Failed to Follow Student")
		return
	}

	response.Text(c, http.StatusOK, "Followed Student")
}

func (h *SocialHandler) GetFollowing(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	var input dto.QueryInput
	_ = c.ShouldBindQuery(&input)

	students, err := h.socialService.SearchFollowing(c.Request.Context(), userID, input.Query)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.StudentListResponse{Data: students})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	if err := h.socialService.UnfollowProfile(c.Request.Context(), userID, bindUsername(c)); err != nil {
		response.ResponseError(c, err, "Failed to unfollow Student")
		return
	}

	response.Text(c, http.StatusOK, "Unfollowed Student")
}

func (h *SocialHandler) UnfollowAll(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	if err := h.socialService.UnfollowAll(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err, "")
		return
	}

	response.Text(c, http.StatusOK, "Unfollowed All")
}
