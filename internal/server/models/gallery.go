package models

import "time"

// Album groups gallery images.
type Album struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Image is an uploaded object and the public URL it is served from.
type Image struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType"`
	AlbumID   *string   `json:"albumId"`
	CreatedAt time.Time `json:"createdAt"`
}
