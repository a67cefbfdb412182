package models

// Lecture is one entry of a course curriculum as stored and exchanged over the API
type Lecture struct {
	Title       string `json:"title"`
	VideoURL    string `json:"videoUrl"`
	PublicID    string `json:"public_id"`
	FreePreview bool   `json:"freePreview"`
}

// HasVideo reports whether a video binding is present
func (l Lecture) HasVideo() bool {
	return l.VideoURL != "" && l.PublicID != ""
}
