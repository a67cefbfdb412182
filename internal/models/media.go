package models

import (
	"io"
	"time"
)

// MediaAsset is the result of storing a media file: its public URL and asset id
type MediaAsset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaMetadata is the stored record of a media asset
type MediaMetadata struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MediaFile is a file handed to the media gateway for upload
type MediaFile struct {
	Name    string
	Content io.Reader
}

// UploadFile is a file received by the media service
type UploadFile struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// ProgressFunc receives the fraction of an upload sent so far, in [0,1]
type ProgressFunc func(progress float64)

// MaxBulkUploadFiles is the largest number of files accepted by one bulk upload
const MaxBulkUploadFiles = 10
