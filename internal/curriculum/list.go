// Package curriculum holds the ordered lecture list of a course draft and the editor
// that binds lecture videos through the media gateway.
package curriculum

import (
	"fmt"
	"strings"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"github.com/google/uuid"
)

// Entry is a lecture together with its identity.
//
// Key is assigned when the entry is created and never changes while the entry stays in the list.
// It is a generated draft id for entries added by hand or loaded from a stored course, and the
// asset id for entries created by bulk import.
type Entry struct {
	Key string `json:"key"`
	models.Lecture
}

// IsBlank reports whether the entry holds no content. The preview flag is not content.
func (e Entry) IsBlank() bool {
	return strings.TrimSpace(e.Title) == "" && e.VideoURL == "" && e.PublicID == ""
}

// List is the ordered curriculum of a course draft. It is not safe for concurrent use; Editor serializes access.
type List struct {
	entries []Entry
	newKey  func() string
}

// NewList returns a list holding one blank lecture
func NewList() *List {
	l := newList()
	l.AppendBlank()
	return l
}

// FromLectures builds a list from stored lectures, assigning a fresh key to each
func FromLectures(lectures []models.Lecture) (*List, error) {
	l := newList()
	for i, lecture := range lectures {
		if (lecture.VideoURL == "") != (lecture.PublicID == "") {
			return nil, fmt.Errorf("lecture %d: %w", i+1, ErrInvalidVideoBinding)
		}
		if lecture.PublicID != "" && l.identityInUse(lecture.PublicID, -1) {
			return nil, fmt.Errorf("lecture %d: %w", i+1, ErrDuplicateIdentity)
		}
		l.entries = append(l.entries, Entry{Key: l.newKey(), Lecture: lecture})
	}
	return l, nil
}

func newList() *List {
	return &List{newKey: uuid.NewString}
}

// Len returns the number of lectures
func (l *List) Len() int {
	return len(l.entries)
}

// At returns a copy of the entry at index i
func (l *List) At(i int) (Entry, error) {
	if err := l.checkIndex(i); err != nil {
		return Entry{}, err
	}
	return l.entries[i], nil
}

// Entries returns a copy of all entries in order
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lectures returns the lectures in order, without keys
func (l *List) Lectures() []models.Lecture {
	out := make([]models.Lecture, len(l.entries))
	for i, entry := range l.entries {
		out[i] = entry.Lecture
	}
	return out
}

// IndexOf returns the index of the entry with the given key, or -1
func (l *List) IndexOf(key string) int {
	for i, entry := range l.entries {
		if entry.Key == key {
			return i
		}
	}
	return -1
}

// AppendBlank appends an empty lecture with a fresh key
func (l *List) AppendBlank() Entry {
	entry := Entry{Key: l.newKey()}
	l.entries = append(l.entries, entry)
	return entry
}

// SetTitle replaces the title of the lecture at index i
func (l *List) SetTitle(i int, title string) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.entries[i].Title = title
	return nil
}

// SetFreePreview sets the free preview flag of the lecture at index i
func (l *List) SetFreePreview(i int, flag bool) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.entries[i].FreePreview = flag
	return nil
}

// AttachVideo binds a video to the lecture at index i. Both url and assetID are required.
func (l *List) AttachVideo(i int, url, assetID string) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	if url == "" || assetID == "" {
		return ErrInvalidVideoBinding
	}
	if l.identityInUse(assetID, i) {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentity, assetID)
	}

	l.entries[i].VideoURL = url
	l.entries[i].PublicID = assetID
	return nil
}

// DetachVideo clears the video binding of the lecture at index i
func (l *List) DetachVideo(i int) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.entries[i].VideoURL = ""
	l.entries[i].PublicID = ""
	return nil
}

// Remove deletes the lecture at index i, keeping the order of the others
func (l *List) Remove(i int) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return nil
}

// AppendMany appends one lecture per uploaded asset, titled "Lecture {position}".
//
// If every current entry is blank the list is emptied first, so positions are counted
// after that decision. Either every asset is appended or the list is left unchanged.
func (l *List) AppendMany(assets []models.MediaAsset) error {
	discard := l.IsAllBlank()

	seen := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		if asset.URL == "" || asset.PublicID == "" {
			return ErrInvalidVideoBinding
		}
		if _, dup := seen[asset.PublicID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentity, asset.PublicID)
		}
		if !discard && l.identityInUse(asset.PublicID, -1) {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentity, asset.PublicID)
		}
		seen[asset.PublicID] = struct{}{}
	}

	if discard {
		l.entries = l.entries[:0]
	}

	for _, asset := range assets {
		l.entries = append(l.entries, Entry{
			Key: asset.PublicID,
			Lecture: models.Lecture{
				Title:    fmt.Sprintf("Lecture %d", len(l.entries)+1),
				VideoURL: asset.URL,
				PublicID: asset.PublicID,
			},
		})
	}
	return nil
}

// IsAllBlank reports whether every entry is blank. An empty list is all blank.
func (l *List) IsAllBlank() bool {
	for _, entry := range l.entries {
		if !entry.IsBlank() {
			return false
		}
	}
	return true
}

// Validate returns the first reason the list cannot be submitted, or nil
func (l *List) Validate() error {
	if len(l.entries) == 0 {
		return apperr.Validation("curriculum has no lectures")
	}

	hasFreePreview := false
	for i, entry := range l.entries {
		if strings.TrimSpace(entry.Title) == "" {
			return apperr.Validation("lecture %d: title is required", i+1)
		}
		if entry.VideoURL == "" {
			return apperr.Validation("lecture %d: video is required", i+1)
		}
		if entry.FreePreview {
			hasFreePreview = true
		}
	}

	if !hasFreePreview {
		return apperr.Validation("at least one lecture must be a free preview")
	}
	return nil
}

// IsSubmitReady reports whether every lecture has a title and a video and at least one is a free preview
func (l *List) IsSubmitReady() bool {
	return l.Validate() == nil
}

// identityInUse reports whether id is the key or asset id of any entry other than the one at skip
func (l *List) identityInUse(id string, skip int) bool {
	for i, entry := range l.entries {
		if i == skip {
			continue
		}
		if entry.Key == id || entry.PublicID == id {
			return true
		}
	}
	return false
}

func (l *List) checkIndex(i int) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}
