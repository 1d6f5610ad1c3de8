package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursematch.com/backend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestResponseErrorUsesAppErrorMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	ResponseError(c, apperror.Conflict("You are already enrolled in this course"), "Failed To Add Course")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d", http.StatusConflict, rec.Code)
	}
	if rec.Body.String() != "You are already enrolled in this course" {
		t.Fatalf("body: got %q", rec.Body.String())
	}
}

func TestResponseErrorFallsBackForInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	ResponseError(c, errors.New("db down"), "Failed To Add Course")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=%d got=%d", http.StatusInternalServerError, rec.Code)
	}
	if rec.Body.String() != "Failed To Add Course" {
		t.Fatalf("body: got %q", rec.Body.String())
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, err := GetUserID(c); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("GetUserID without session: want ErrUnauthorized got %v", err)
	}

	id := uuid.New()
	c.Set("user_id", id.String())
	got, err := GetUserID(c)
	if err != nil {
		t.Fatalf("GetUserID: %v", err)
	}
	if got != id {
		t.Fatalf("GetUserID: want=%s got=%s", id, got)
	}
}
