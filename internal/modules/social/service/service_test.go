package social_test

import (
	"context"
	"errors"
	"testing"

	"coursematch.com/backend/internal/entity"
	courseRepo "coursematch.com/backend/internal/modules/course/repository"
	course "coursematch.com/backend/internal/modules/course/service"
	notifRepo "coursematch.com/backend/internal/modules/notification/repository"
	notificationService "coursematch.com/backend/internal/modules/notification/service"
	socialRepo "coursematch.com/backend/internal/modules/social/repository"
	social "coursematch.com/backend/internal/modules/social/service"
	userRepo "coursematch.com/backend/internal/modules/user/repository"
	"coursematch.com/backend/internal/testutil"
	"coursematch.com/backend/pkg/apperror"
	"coursematch.com/backend/pkg/logger"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     social.SocialService
	courses course.CourseService
	users   userRepo.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := logger.Nop()

	users := userRepo.NewUserRepository(db)
	courses := course.NewCourseService(courseRepo.NewCourseRepository(db), log)
	notifications := notificationService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil, log)
	svc := social.NewSocialService(users, socialRepo.NewFollowRepository(db), courses, notifications, log)

	return &fixture{db: db, svc: svc, courses: courses, users: users}
}

func (f *fixture) student(t *testing.T, username, first, last, major string) *entity.User {
	t.Helper()
	user := &entity.User{Username: username, PasswordHash: "x", FirstName: first, LastName: last}
	profile := entity.NewProfile()
	profile.Major = major
	if err := f.users.Create(context.Background(), user, profile); err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return user
}

func TestFollowThenUnfollowAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	me := f.student(t, "me", "Ada", "Lovelace", "Math")
	bob := f.student(t, "bob", "Bob", "Builder", "Civil")
	f.student(t, "cat", "Cat", "Stevens", "Music")

	if err := f.db.Create(&entity.Course{Code: "CS101", Department: "Computer Science",
		Sections: []entity.ClassSection{{Section: "CO1"}}}).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	if err := f.courses.AddCourse(ctx, bob.ID, "CS101"); err != nil {
		t.Fatalf("add course: %v", err)
	}

	for _, u := range []string{"bob", "cat", "bob"} {
		if err := f.svc.FollowProfile(ctx, me.ID, u); err != nil {
			t.Fatalf("follow %s: %v", u, err)
		}
	}

	following, err := f.svc.SearchFollowing(ctx, me.ID, "")
	if err != nil {
		t.Fatalf("search following: %v", err)
	}
	if len(following) != 2 || following[0].Username != "bob" || following[1].Username != "cat" {
		t.Fatalf("following: want [bob cat], got %+v", following)
	}
	if following[0].FullName != "Bob Builder" || following[0].Info.Major != "Civil" {
		t.Fatalf("unexpected card: %+v", following[0])
	}
	if len(following[0].Courses) != 1 || following[0].Courses[0].Code != "CS101" {
		t.Fatalf("followee courses: got %+v", following[0].Courses)
	}

	var bobProfile entity.Profile
	f.db.First(&bobProfile, "user_id = ?", bob.ID)
	if bobProfile.Messages != 1 {
		t.Fatalf("repeat follow must notify once: want=1 got=%d", bobProfile.Messages)
	}

	filtered, _ := f.svc.SearchFollowing(ctx, me.ID, "MUS")
	if len(filtered) != 1 || filtered[0].Username != "cat" {
		t.Fatalf("filter by major: got %+v", filtered)
	}

	if err := f.svc.UnfollowProfile(ctx, me.ID, "cat"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	following, _ = f.svc.SearchFollowing(ctx, me.ID, "")
	if len(following) != 1 {
		t.Fatalf("after unfollow: want 1, got %d", len(following))
	}

	if err := f.svc.UnfollowAll(ctx, me.ID); err != nil {
		t.Fatalf("unfollow all: %v", err)
	}
	following, _ = f.svc.SearchFollowing(ctx, me.ID, "")
	if len(following) != 0 {
		t.Fatalf("after unfollow all: want empty, got %+v", following)
	}
}

func TestFollowFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.student(t, "me", "Ada", "Lovelace", "")

	tests := []struct {
		name     string
		username string
		status   int
	}{
		{"empty", "", 400},
		{"unknown", "ghost", 404},
		{"self", "me", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.FollowProfile(ctx, me.ID, tt.username)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Message != "Failed to Follow Student" {
				t.Fatalf("want follow failure, got %v", err)
			}
			if got := apperror.MapErrorToStatus(err); got != tt.status {
				t.Fatalf("status: want=%d got=%d", tt.status, got)
			}
		})
	}

	err := f.svc.UnfollowProfile(ctx, me.ID, "ghost")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Failed to unfollow Student" {
		t.Fatalf("unfollow unknown: got %v", err)
	}
}

func TestSearchProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "zed", "Zed", "Alpha", "Physics")
	f.student(t, "amy", "Amy", "Beta", "Physics")
	f.student(t, "tom", "Tom", "Gamma", "History")

	results, err := f.svc.SearchProfiles(ctx, "phys")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 || results[0].Username != "amy" || results[1].Username != "zed" {
		t.Fatalf("want [amy zed], got %+v", results)
	}
	if results[0].ImgURL != entity.DefaultAvatar || results[0].Courses == nil {
		t.Fatalf("unexpected card: %+v", results[0])
	}
}
