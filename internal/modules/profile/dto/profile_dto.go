package dto

// SaveProfileInput replaces every editable profile field. A missing year or
// gpa falls back to 1 and 1.0.
type SaveProfileInput struct {
	Major      string   `json:"major" form:"major"`
	Minor      string   `json:"minor" form:"minor"`
	Year       *int     `json:"year" form:"year"`
	GPA        *float64 `json:"gpa" form:"gpa"`
	FavClasses string   `json:"favclasses" form:"favclasses"`
	Mood       string   `json:"mood" form:"mood"`
	Bio        string   `json:"bio" form:"bio"`
}

type UpdatePictureInput struct {
	URL string `json:"url" form:"url"`
}
