package handler

import (
	"net/http"

	"coursematch.com/backend/internal/modules/course/dto"
	course "coursematch.com/backend/internal/modules/course/service"
	"coursematch.com/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService course.CourseService
}

func NewCourseHandler(courseService course.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// bindCode reads "code" from the body, falling back to the query string.
func bindCode(c *gin.Context) string {
	var input dto.CourseCodeInput
	_ = c.ShouldBind(&input)
	if input.Code == "" {
		input.Code = c.Query("code")
	}
	return input.Code
}

func (h *CourseHandler) GetUserCourses(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	courses, err := h.courseService.ResolveCoursesForProfile(c.Request.Context(), userID, c.Query("code"))
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.UserCoursesResponse{Courses: courses})
}

func (h *CourseHandler) SearchCourses(c *gin.Context) {
	courses, err := h.courseService.SearchCatalog(c.Request.Context(), c.Query("code"))
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.CatalogResponse{Data: courses})
}

func (h *CourseHandler) AddCourse(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	if err := h.courseService.AddCourse(c.Request.Context(), userID, bindCode(c)); err != nil {
		response.ResponseError(c, err, "Failed To Add Course")
		return
	}

	response.Text(c, http.StatusOK, "Course Added")
}

func (h *CourseHandler) RemoveCourse(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err, "NotAuthenticated")
		return
	}

	if err := h.courseService.RemoveCourse(c.Request.Context(), userID, bindCode(c)); err != nil {
		response.ResponseError(c, err, "Failed to Remove Course")
		return
	}

	response.Text(c, http.StatusOK, "Course Removed")
}
