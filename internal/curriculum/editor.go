package curriculum

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// cleanupTimeout bounds best-effort deletes of assets that could not be bound to a lecture
const cleanupTimeout = 30 * time.Second

// MediaGateway uploads and deletes lecture videos on the media service
type MediaGateway interface {
	// UploadOne uploads a single file.
	//
	// "progress" receives the fraction sent so far and may be nil.
	//
	// Returns the stored asset or an error; the gateway never retries.
	UploadOne(ctx context.Context, file models.MediaFile, progress models.ProgressFunc) (*models.MediaAsset, error)
	// UploadMany uploads up to models.MaxBulkUploadFiles files in one request.
	//
	// Returns one asset per file, in request order, or an error.
	UploadMany(ctx context.Context, files []models.MediaFile, progress models.ProgressFunc) ([]models.MediaAsset, error)
	// DeleteAsset removes a stored asset.
	DeleteAsset(ctx context.Context, assetID string) error
}

// VideoState is the video binding state of one lecture
type VideoState int

const (
	VideoEmpty VideoState = iota
	VideoUploading
	VideoBound
)

func (s VideoState) String() string {
	switch s {
	case VideoEmpty:
		return "empty"
	case VideoUploading:
		return "uploading"
	case VideoBound:
		return "bound"
	default:
		return fmt.Sprintf("VideoState(%d)", int(s))
	}
}

// Snapshot is a consistent copy of the editor state
type Snapshot struct {
	Entries []Entry
	// Uploading is true while a single or bulk upload is in flight
	Uploading bool
	// UploadingKey is the key of the lecture receiving a single upload
	UploadingKey string
	// Progress is the fraction of the current upload sent so far
	Progress float64
}

// Editor applies curriculum edits that may involve the media gateway.
//
// Every mutation of the list happens under the editor lock; the lock is released while a
// gateway call is in flight, and completions find their lecture again by key. Subscribers
// are called after each change, outside the lock, from the goroutine that made the change.
type Editor struct {
	mu           sync.Mutex
	list         *List
	gateway      MediaGateway
	logger       *zap.Logger
	uploading    bool
	uploadingKey string
	progress     float64
	subscribers  []func(Snapshot)
}

// NewEditor creates an editor holding a fresh list with one blank lecture
func NewEditor(gateway MediaGateway, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		list:    NewList(),
		gateway: gateway,
		logger:  logger,
	}
}

// Subscribe registers fn to receive a snapshot after every change
func (e *Editor) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// Snapshot returns the current state
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Lectures returns the lectures in order
func (e *Editor) Lectures() []models.Lecture {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Lectures()
}

// Len returns the number of lectures
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Len()
}

// IsUploading reports whether an upload is in flight
func (e *Editor) IsUploading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uploading
}

// Validate returns the first reason the curriculum cannot be submitted, or nil
func (e *Editor) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Validate()
}

// IsSubmitReady reports whether the curriculum can be submitted
func (e *Editor) IsSubmitReady() bool {
	return e.Validate() == nil
}

// State returns the video state of the lecture at index i
func (e *Editor) State(i int) (VideoState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.list.At(i)
	if err != nil {
		return VideoEmpty, err
	}
	return e.stateLocked(entry), nil
}

// Load replaces the curriculum with stored lectures
func (e *Editor) Load(lectures []models.Lecture) error {
	list, err := FromLectures(lectures)
	if err != nil {
		return err
	}
	return e.replaceList(list)
}

// Reset replaces the curriculum with a single blank lecture
func (e *Editor) Reset() error {
	return e.replaceList(NewList())
}

func (e *Editor) replaceList(list *List) error {
	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		return ErrUploadInProgress
	}
	e.list = list
	e.unlockAndNotify()
	return nil
}

// AddLecture appends a blank lecture. It is rejected while an upload is in flight.
func (e *Editor) AddLecture() (Entry, error) {
	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		return Entry{}, ErrUploadInProgress
	}
	entry := e.list.AppendBlank()
	e.unlockAndNotify()
	return entry, nil
}

// SetTitle replaces the title of the lecture at index i
func (e *Editor) SetTitle(i int, title string) error {
	e.mu.Lock()
	if err := e.list.SetTitle(i, title); err != nil {
		e.mu.Unlock()
		return err
	}
	e.unlockAndNotify()
	return nil
}

// SetFreePreview sets the free preview flag of the lecture at index i
func (e *Editor) SetFreePreview(i int, flag bool) error {
	e.mu.Lock()
	if err := e.list.SetFreePreview(i, flag); err != nil {
		e.mu.Unlock()
		return err
	}
	e.unlockAndNotify()
	return nil
}

// UploadVideo uploads file and binds it to the lecture at index i.
//
// The lecture must have no video. On failure the lecture stays without a video.
func (e *Editor) UploadVideo(ctx context.Context, i int, file models.MediaFile) (Entry, error) {
	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		return Entry{}, ErrUploadInProgress
	}
	entry, err := e.list.At(i)
	if err != nil {
		e.mu.Unlock()
		return Entry{}, err
	}
	if entry.HasVideo() {
		e.mu.Unlock()
		return Entry{}, ErrVideoAlreadyBound
	}
	e.beginUploadLocked(entry.Key)
	e.unlockAndNotify()

	asset, uploadErr := e.gateway.UploadOne(ctx, file, e.reportProgress)

	e.mu.Lock()
	e.endUploadLocked()
	if uploadErr != nil {
		e.unlockAndNotify()
		e.logger.Warn("video upload failed", zap.String("lecture", entry.Key), zap.Error(uploadErr))
		return Entry{}, fmt.Errorf("upload video: %w", uploadErr)
	}

	idx := e.list.IndexOf(entry.Key)
	if idx < 0 {
		e.unlockAndNotify()
		e.discardAssets(ctx, asset.PublicID)
		return Entry{}, apperr.NotFound("lecture %s was removed during upload", entry.Key)
	}
	if err := e.list.AttachVideo(idx, asset.URL, asset.PublicID); err != nil {
		e.unlockAndNotify()
		e.discardAssets(ctx, asset.PublicID)
		return Entry{}, fmt.Errorf("bind uploaded video: %w", err)
	}
	bound := e.list.entries[idx]
	e.unlockAndNotify()

	e.logger.Info("video uploaded", zap.String("lecture", bound.Key), zap.String("asset", bound.PublicID))
	return bound, nil
}

// ReplaceVideo deletes the remote asset of the lecture at index i and clears its video,
// leaving the lecture ready for a new upload. If the remote delete fails nothing changes.
func (e *Editor) ReplaceVideo(ctx context.Context, i int) error {
	e.mu.Lock()
	entry, err := e.list.At(i)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if e.uploadingKey == entry.Key {
		e.mu.Unlock()
		return ErrLectureUploading
	}
	if !entry.HasVideo() {
		e.mu.Unlock()
		return ErrNoVideoBound
	}
	e.mu.Unlock()

	if err := e.deleteRemote(ctx, entry.PublicID); err != nil {
		return fmt.Errorf("replace video: %w", err)
	}

	e.mu.Lock()
	idx := e.list.IndexOf(entry.Key)
	if idx < 0 {
		e.mu.Unlock()
		return apperr.NotFound("lecture %s was removed during replace", entry.Key)
	}
	if e.list.entries[idx].PublicID == entry.PublicID {
		// DetachVideo cannot fail for a resolved index
		_ = e.list.DetachVideo(idx)
	}
	e.unlockAndNotify()
	return nil
}

// DeleteLecture removes the lecture at index i. A bound video is deleted remotely first;
// if that fails the lecture is kept unchanged.
func (e *Editor) DeleteLecture(ctx context.Context, i int) error {
	e.mu.Lock()
	entry, err := e.list.At(i)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if e.uploadingKey == entry.Key {
		e.mu.Unlock()
		return ErrLectureUploading
	}
	if !entry.HasVideo() {
		_ = e.list.Remove(i)
		e.unlockAndNotify()
		return nil
	}
	e.mu.Unlock()

	if err := e.deleteRemote(ctx, entry.PublicID); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}

	e.mu.Lock()
	if idx := e.list.IndexOf(entry.Key); idx >= 0 {
		_ = e.list.Remove(idx)
	}
	e.unlockAndNotify()
	return nil
}

// BulkImport uploads files in one request and appends one lecture per uploaded file.
//
// Any failure leaves the list unchanged. A response that does not cover every file is
// reported as a partial bulk failure and the assets it did return are deleted.
func (e *Editor) BulkImport(ctx context.Context, files []models.MediaFile) ([]Entry, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("no files to import")
	}
	if len(files) > models.MaxBulkUploadFiles {
		return nil, apperr.Validation("at most %d files can be imported at once, got %d", models.MaxBulkUploadFiles, len(files))
	}

	e.mu.Lock()
	if e.uploading {
		e.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	e.beginUploadLocked("")
	e.unlockAndNotify()

	assets, uploadErr := e.gateway.UploadMany(ctx, files, e.reportProgress)

	e.mu.Lock()
	e.endUploadLocked()
	if uploadErr != nil {
		e.unlockAndNotify()
		e.logger.Warn("bulk upload failed", zap.Int("files", len(files)), zap.Error(uploadErr))
		return nil, fmt.Errorf("bulk import: %w", uploadErr)
	}

	if len(assets) != len(files) {
		e.unlockAndNotify()
		e.discardAssets(ctx, assetIDs(assets)...)
		return nil, apperr.PartialBulkFailure("bulk import: uploaded %d of %d files", len(assets), len(files))
	}

	before := e.list.Len()
	if e.list.IsAllBlank() {
		before = 0
	}
	if err := e.list.AppendMany(assets); err != nil {
		e.unlockAndNotify()
		e.discardAssets(ctx, assetIDs(assets)...)
		return nil, fmt.Errorf("bulk import: %w", err)
	}
	added := e.list.Entries()[before:]
	e.unlockAndNotify()

	e.logger.Info("bulk import finished", zap.Int("lectures", len(added)))
	return added, nil
}

// deleteRemote deletes an asset. An asset the media service reports as unknown counts as deleted;
// a 404 from anything in front of the service does not.
func (e *Editor) deleteRemote(ctx context.Context, assetID string) error {
	err := e.gateway.DeleteAsset(ctx, assetID)
	if err != nil && apperr.IsNotFound(err) {
		e.logger.Info("asset already gone", zap.String("asset", assetID))
		return nil
	}
	return err
}

// discardAssets deletes assets that were uploaded but could not be bound to a lecture
func (e *Editor) discardAssets(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	for _, id := range ids {
		if err := e.gateway.DeleteAsset(cleanupCtx, id); err != nil && !apperr.IsNotFound(err) {
			e.logger.Warn("failed to discard unbound asset", zap.String("asset", id), zap.Error(err))
		}
	}
}

func (e *Editor) reportProgress(progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	e.mu.Lock()
	if !e.uploading {
		e.mu.Unlock()
		return
	}
	e.progress = progress
	e.unlockAndNotify()
}

func (e *Editor) beginUploadLocked(key string) {
	e.uploading = true
	e.uploadingKey = key
	e.progress = 0
}

func (e *Editor) endUploadLocked() {
	e.uploading = false
	e.uploadingKey = ""
	e.progress = 0
}

func (e *Editor) stateLocked(entry Entry) VideoState {
	switch {
	case e.uploadingKey != "" && e.uploadingKey == entry.Key:
		return VideoUploading
	case entry.HasVideo():
		return VideoBound
	default:
		return VideoEmpty
	}
}

func (e *Editor) snapshotLocked() Snapshot {
	return Snapshot{
		Entries:      e.list.Entries(),
		Uploading:    e.uploading,
		UploadingKey: e.uploadingKey,
		Progress:     e.progress,
	}
}

// unlockAndNotify releases the lock and publishes the state it guarded
func (e *Editor) unlockAndNotify() {
	snapshot := e.snapshotLocked()
	subscribers := make([]func(Snapshot), len(e.subscribers))
	copy(subscribers, e.subscribers)
	e.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func assetIDs(assets []models.MediaAsset) []string {
	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		if asset.PublicID != "" {
			ids = append(ids, asset.PublicID)
		}
	}
	return ids
}
