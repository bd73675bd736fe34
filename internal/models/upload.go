package models

import "time"

// Resource types of stored uploads
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Upload is the record of a stored file and its thumbnail
type Upload struct {
	ID           int64
	UserID       int64
	StorageKey   string
	URL          string
	ThumbnailKey *string
	ThumbnailURL *string
	OriginalName string
	Mimetype     string
	Size         int64
	ResourceType string
	CreatedAt    time.Time
}

// MediaType maps the stored resource type onto a post media type
func (u *Upload) MediaType() string {
	if u.ResourceType == ResourceVideo {
		return MediaTypeVideo
	}
	return MediaTypeImage
}
