package dto

// SlugRequest creates a category or genre.
type SlugRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50"`
}

type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" validate:"required,min=1"`
	Category    string   `json:"category" validate:"required"`
}

// UpdateTitleRequest is a partial update; nil fields are left untouched.
type UpdateTitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" validate:"omitempty,min=1"`
	Category    *string   `json:"category"`
}

// TitleFilter narrows a title list request. Zero values mean "no filter".
type TitleFilter struct {
	Name     string
	Year     *int
	Genre    string
	Category string
	Search   string
}
