package curriculum

import "github.com/coursecraft/lms/internal/apperr"

// All curriculum errors are validation errors: apperr.IsValidation reports true for them.
var (
	ErrIndexOutOfRange     = apperr.NewValidationSentinel("curriculum: lecture index out of range")
	ErrInvalidVideoBinding = apperr.NewValidationSentinel("curriculum: video url and asset id must be set together")
	ErrDuplicateIdentity   = apperr.NewValidationSentinel("curriculum: lecture identity already in use")
	ErrUploadInProgress    = apperr.NewValidationSentinel("curriculum: an upload is in progress")
	ErrVideoAlreadyBound   = apperr.NewValidationSentinel("curriculum: lecture already has a video")
	ErrNoVideoBound        = apperr.NewValidationSentinel("curriculum: lecture has no video")
	ErrLectureUploading    = apperr.NewValidationSentinel("curriculum: lecture video is uploading")
)
