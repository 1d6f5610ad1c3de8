package bootstrap

import (
	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/pkg/session"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Course{},
		&entity.ClassSection{},
		&entity.Enrollment{},
		&entity.ScheduleEntry{},
		&entity.Follow{},
		&session.RevokedSession{},
	)
}

func section(label, prof, location, times string) entity.ClassSection {
	return entity.ClassSection{Section: label, Prof: prof, Location: location, Times: times}
}

var starterCatalog = []entity.Course{
	{
		Code:       "COMPSCI 1JC3",
		Department: "COMPSCI",
		Sections: []entity.ClassSection{
			section("CO1", "W. Farmer", "MDCL 1105", "Mon 9:30-10:20, Wed 9:30-10:20, Thu 9:30-10:20"),
			section("CO2", "J. Carette", "TSH 120", "Tue 14:30-15:20, Thu 14:30-15:20, Fri 14:30-15:20"),
			section("TO1", "TA", "ITB 137", "Fri 11:30-12:20"),
			section("TO2", "TA", "ITB 137", "Fri 12:30-13:20"),
			section("LO1", "TA", "ITB 236", "Wed 14:30-17:20"),
		},
	},
	{
		Code:       "COMPSCI 2C03",
		Department: "COMPSCI",
		Sections: []entity.ClassSection{
			section("CO1", "J. Hidders", "BSB 147", "Mon 12:30-13:20, Wed 12:30-13:20, Fri 12:30-13:20"),
			section("TO1", "TA", "ETB 228", "Tue 16:30-17:20"),
		},
	},
	{
		Code:       "SFWRENG 2AA4",
		Department: "SFWRENG",
		Sections: []entity.ClassSection{
			section("CO1", "S. Smith", "JHE 376", "Tue 8:30-9:20, Wed 8:30-9:20, Fri 8:30-9:20"),
			section("TO1", "TA", "ITB AB102", "Mon 14:30-15:20"),
			section("LO1", "TA", "ITB 235", "Thu 14:30-17:20"),
			section("LO2", "TA", "ITB 235", "Fri 14:30-17:20"),
		},
	},
	{
		Code:       "MATH 1ZA3",
		Department: "MATH",
		Sections: []entity.ClassSection{
			section("CO1", "M. Lovric", "MDCL 1305", "Mon 11:30-12:20, Tue 11:30-12:20, Thu 11:30-12:20"),
			section("CO2", "M. Lovric", "MDCL 1305", "Mon 15:30-16:20, Tue 15:30-16:20, Thu 15:30-16:20"),
			section("TO1", "TA", "HH 109", "Wed 10:30-11:20"),
		},
	},
	{
		Code:       "PHYSICS 1D03",
		Department: "PHYSICS",
		Sections: []entity.ClassSection{
			section("CO1", "P. Kruse", "TSH 120", "Mon 10:30-11:20, Wed 10:30-11:20, Thu 10:30-11:20"),
			section("LO1", "TA", "ABB 241", "Tue 14:30-17:20"),
		},
	},
}

// SeedCatalog inserts the starter courses that are missing and returns the
// full catalog with sections.
func SeedCatalog(db *gorm.DB) ([]entity.Course, error) {
	for _, course := range starterCatalog {
		var count int64
		if err := db.Model(&entity.Course{}).
			Where("code = ?", course.Code).
			Count(&count).Error; err != nil {
			return nil, err
		}

		if count == 0 {
			c := course
			c.Sections = append([]entity.ClassSection(nil), course.Sections...)
			if err := db.Create(&c).Error; err != nil {
				return nil, err
			}
		}
	}

	var catalog []entity.Course
	if err := db.Preload("Sections").Order("code").Find(&catalog).Error; err != nil {
		return nil, err
	}
	return catalog, nil
}
