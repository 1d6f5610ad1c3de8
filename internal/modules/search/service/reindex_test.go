package search_test

import (
	"context"
	"errors"
	"testing"

	"coursematch.com/backend/internal/bootstrap"
	"coursematch.com/backend/internal/entity"
	search "coursematch.com/backend/internal/modules/search/service"
	"coursematch.com/backend/internal/testutil"
	"coursematch.com/backend/pkg/logger"
)

type recordingIndex struct {
	profiles []string
	courses  int
	failOn   string
}

func (r *recordingIndex) IndexProfile(user *entity.User) error {
	if user.Username == r.failOn {
		return errors.New("index down")
	}
	r.profiles = append(r.profiles, user.Username)
	return nil
}

func (r *recordingIndex) IndexCourses(courses []entity.Course) error {
	r.courses += len(courses)
	return nil
}

func TestReindexerIndexesEverything(t *testing.T) {
	db := testutil.NewDB(t)
	catalog, err := bootstrap.SeedCatalog(db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, name := range []string{"zoe", "adam", "mia"} {
		user := &entity.User{Username: name, PasswordHash: "x", FirstName: name}
		if err := db.Omit("Profile").Create(user).Error; err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		profile := entity.NewProfile()
		profile.UserID = user.ID
		if err := db.Omit("User").Create(profile).Error; err != nil {
			t.Fatalf("profile %s: %v", name, err)
		}
	}

	idx := &recordingIndex{}
	if err := search.NewReindexer(db, idx, logger.Nop()).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if idx.courses != len(catalog) {
		t.Fatalf("courses: want=%d got=%d", len(catalog), idx.courses)
	}
	if len(idx.profiles) != 3 {
		t.Fatalf("profiles: got %v", idx.profiles)
	}

	idx = &recordingIndex{failOn: "mia"}
	if err := search.NewReindexer(db, idx, logger.Nop()).Run(context.Background()); err == nil {
		t.Fatal("want index failure to surface")
	}
}
