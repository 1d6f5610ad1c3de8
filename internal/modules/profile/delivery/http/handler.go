package handler

import (
	"net/http"

	profileDto "coursematch.com/backend/internal/modules/profile/dto"
	profile "coursematch.com/backend/internal/modules/profile/service"
	commonDto "coursematch.com/backend/pkg/dto"
	"coursematch.com/backend/pkg/response"
	"coursematch.com/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfileInfo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	info, err := h.profileService.GetProfileInfo(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *ProfileHandler) SaveProfileInfo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	var input profileDto.SaveProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.Text(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.profileService.SaveProfileInfo(c.Request.Context(), userID, input); err != nil {
		response.ResponseError(c, err, "")
		return
	}

	response.Text(c, http.StatusOK, "Profile Updated")
}

func (h *ProfileHandler) UpdatePicture(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	var input profileDto.UpdatePictureInput
	_ = c.ShouldBind(&input)
	if input.URL == "" {
		input.URL = c.Query("url")
	}

	if err := h.profileService.UpdatePicture(c.Request.Context(), userID, input.URL); err != nil {
		response.ResponseError(c, err, "Failed To Update Picture")
		return
	}

	response.Text(c, http.StatusOK, "Profile Picture Updated")
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.Text(c, http.StatusBadRequest, "Failed To Update Picture")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Text(c, http.StatusBadRequest, "Failed To Update Picture")
		return
	}
	defer file.Close()

	avatar := &commonDto.AvatarFile{
		Reader:   file,
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
	}

	if _, err := h.profileService.UploadAvatar(c.Request.Context(), userID, avatar); err != nil {
		response.ResponseError(c, err, "Failed To Update Picture")
		return
	}

	response.Text(c, http.StatusOK, "Profile Picture Updated")
}
