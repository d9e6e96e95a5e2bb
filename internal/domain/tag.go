package domain

// Tag labels tickets and entries.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ColorCode string `json:"color_code,omitempty"`
	Category  string `json:"category,omitempty"`
}

// CreateTagRequest payload.
type CreateTagRequest struct {
	Name      string `json:"name"`
	ColorCode string `json:"color_code,omitempty"`
}

// UpdateTagRequest payload.
type UpdateTagRequest struct {
	Name      *string `json:"name,omitempty"`
	ColorCode *string `json:"color_code,omitempty"`
}

// AddTagRequest attaches tags to a ticket or entry.
type AddTagRequest struct {
	TagIDs   []int64 `json:"tag_ids"`
	Category string  `json:"category,omitempty"`
}
