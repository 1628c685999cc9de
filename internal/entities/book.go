package entities

// DefaultCategory is assigned when a book is created without one.
const DefaultCategory = "other"

// Book is the metadata document stored at books/<book_id>/info.json.
// The owner_name field is a snapshot of the owner's display name at
// creation time; it is not kept in sync with later owner changes.
type Book struct {
	BookID        string  `json:"book_id"`
	Name          string  `json:"name"`
	OwnerUID      string  `json:"owner_uid"`
	OwnerName     string  `json:"owner_name"`
	CreatedAt     string  `json:"created_at"`
	Author        string  `json:"author,omitempty"`
	Category      string  `json:"category,omitempty"`
	CoverImage    *string `json:"coverImage"`
	HasCover      bool    `json:"hasCover"`
	ReadProgress  float64 `json:"readProgress"`
	ChaptersRead  int     `json:"chaptersRead"`
	TotalChapters int     `json:"totalChapters"`
	IsCompleted   bool    `json:"isCompleted"`
}
