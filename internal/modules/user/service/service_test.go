package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursematch.com/backend/internal/entity"
	search "coursematch.com/backend/internal/modules/search/service"
	"coursematch.com/backend/internal/modules/user/dto"
	"coursematch.com/backend/pkg/apperror"
	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	hashCost = bcrypt.MinCost
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	if _, ok := f.users[user.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = uuid.New()
	profile.UserID = user.ID
	user.Profile = profile
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepo) FindProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	u, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Profile, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, p *entity.Profile) error { return nil }

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error { return nil }

func (f *fakeUserRepo) SearchProfiles(ctx context.Context, q string) ([]*entity.Profile, error) {
	return nil, nil
}

type fakeFollowRepo struct {
	following, followers int64
}

func (f *fakeFollowRepo) Follow(ctx context.Context, a, b uuid.UUID) (bool, error) { return true, nil }
func (f *fakeFollowRepo) Unfollow(ctx context.Context, a, b uuid.UUID) error       { return nil }
func (f *fakeFollowRepo) UnfollowAll(ctx context.Context, a uuid.UUID) error       { return nil }
func (f *fakeFollowRepo) CountFollowing(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.following, nil
}
func (f *fakeFollowRepo) CountFollowers(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.followers, nil
}
func (f *fakeFollowRepo) SearchFollowing(ctx context.Context, id uuid.UUID, q string) ([]*entity.Profile, error) {
	return nil, nil
}

func newTestService(repo *fakeUserRepo, follows *fakeFollowRepo) AuthService {
	sessions := session.NewManager(session.Options{
		Secret:      "test",
		TTL:         12 * time.Hour,
		RememberTTL: 48 * time.Hour,
	}, nil)
	return NewAuthService(repo, follows, sessions, search.NewMeiliSearchService(nil, nil), logger.Nop())
}

func validRegistration() dto.RegisterInput {
	return dto.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "lovelaca",
		Password:  "engines123",
		Confirm:   "engines123",
	}
}

func messageOf(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

func TestRegisterValidationOrder(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeFollowRepo{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(in *dto.RegisterInput)
		want   string
	}{
		{"everything empty", func(in *dto.RegisterInput) { *in = dto.RegisterInput{} }, "First Name cannot be empty"},
		{"last name", func(in *dto.RegisterInput) { in.LastName = ""; in.Password = "short" }, "Last Name cannot be empty"},
		{"username", func(in *dto.RegisterInput) { in.Username = ""; in.Confirm = "nope" }, "MacID cannot be empty"},
		{"short password", func(in *dto.RegisterInput) { in.Password = "1234567"; in.Confirm = "x" }, "Password must be at least 8 characters long"},
		{"mismatch", func(in *dto.RegisterInput) { in.Confirm = "engines124" }, "Passwords must match"},
	}

	for _, tc := range cases {
		in := validRegistration()
		tc.mutate(&in)
		_, err := svc.Register(ctx, in)
		if got := messageOf(err); got != tc.want {
			t.Fatalf("%s: want=%q got=%q (err=%v)", tc.name, tc.want, got, err)
		}
		if apperror.MapErrorToStatus(err) != 400 {
			t.Fatalf("%s: want status 400, got %d", tc.name, apperror.MapErrorToStatus(err))
		}
	}
}

func TestRegisterCreatesProfileAndSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeFollowRepo{})

	sess, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Token == "" || sess.Claims.Remember {
		t.Fatalf("expected a non-remembered session, got %+v", sess.Claims)
	}

	user := repo.users["lovelaca"]
	if user == nil || user.Profile == nil {
		t.Fatal("expected user with profile")
	}
	if sess.Claims.Subject != user.ID.String() {
		t.Fatalf("subject: want=%s got=%s", user.ID, sess.Claims.Subject)
	}
	if user.PasswordHash == "engines123" {
		t.Fatal("password stored in plain text")
	}
	if user.Profile.AvatarURL != entity.DefaultAvatar || user.Profile.Year != 1 {
		t.Fatalf("unexpected profile defaults: %+v", user.Profile)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeFollowRepo{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, validRegistration())
	if got := messageOf(err); got != "Username already taken" {
		t.Fatalf("want=%q got=%q", "Username already taken", got)
	}
	if apperror.MapErrorToStatus(err) != 409 {
		t.Fatalf("want status 409, got %d", apperror.MapErrorToStatus(err))
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeFollowRepo{})
	ctx := context.Background()
	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	failures := []dto.LoginInput{
		{Username: "lovelaca", Password: "wrong-password"},
		{Username: "nobody", Password: "engines123"},
		{Username: "", Password: ""},
	}
	for _, in := range failures {
		if _, err := svc.Login(ctx, in); messageOf(err) != "LoginFailed" {
			t.Fatalf("login %q: want LoginFailed, got %v", in.Username, err)
		}
	}

	sess, err := svc.Login(ctx, dto.LoginInput{Username: "lovelaca", Password: "engines123", RememberUser: true})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sess.Claims.Remember {
		t.Fatal("expected remembered session")
	}
}

func TestLogout(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeFollowRepo{})
	ctx := context.Background()

	ended, err := svc.Logout(ctx, &session.Claims{Remember: true})
	if err != nil || ended {
		t.Fatalf("remembered: want ended=false, got ended=%v err=%v", ended, err)
	}

	ended, err = svc.Logout(ctx, &session.Claims{})
	if err != nil || !ended {
		t.Fatalf("plain: want ended=true, got ended=%v err=%v", ended, err)
	}
}

func TestUserInfo(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeFollowRepo{following: 3, followers: 5})
	ctx := context.Background()
	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	user := repo.users["lovelaca"]
	user.Profile.Major = "Math"
	user.Profile.Bio = "hello"
	user.Profile.Messages = 2

	info, err := svc.UserInfo(ctx, user.ID)
	if err != nil {
		t.Fatalf("user info: %v", err)
	}
	want := dto.UserInfoResponse{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		FollowingCount:    3,
		FollowersCount:    5,
		ProfileCompletion: 52,
		DaysUntilEnd:      4,
		ImgURL:            entity.DefaultAvatar,
		UnreadMessages:    2,
	}
	if *info != want {
		t.Fatalf("want=%+v got=%+v", want, *info)
	}

	if _, err := svc.UserInfo(ctx, uuid.New()); apperror.MapErrorToStatus(err) != 401 {
		t.Fatalf("unknown user: want 401, got %v", err)
	}
}
