package authoring

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

// CourseLister lists and deletes the instructor's courses
type CourseLister interface {
	List(ctx context.Context) ([]models.CourseSummary, error)
	Delete(ctx context.Context, id string) error
}

// Directory is the instructor's list of courses
type Directory struct {
	mu      sync.RWMutex
	store   CourseLister
	courses []models.CourseSummary
	logger  *zap.Logger
}

// NewDirectory creates an empty directory; call Refresh to load it
func NewDirectory(store CourseLister, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: store, logger: logger}
}

// Refresh reloads the course list. On failure the previous list is kept.
func (d *Directory) Refresh(ctx context.Context) ([]models.CourseSummary, error) {
	courses, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh courses: %w", err)
	}

	d.mu.Lock()
	d.courses = append([]models.CourseSummary(nil), courses...)
	d.mu.Unlock()

	return d.Courses(), nil
}

// Courses returns a copy of the loaded course list
func (d *Directory) Courses() []models.CourseSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.CourseSummary, len(d.courses))
	copy(out, d.courses)
	return out
}

// Delete removes the course remotely and then from the loaded list
func (d *Directory) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Validation("course id is required")
	}

	if err := d.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course %s: %w", id, err)
	}

	d.mu.Lock()
	for i, course := range d.courses {
		if course.ID == id {
			d.courses = append(d.courses[:i], d.courses[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	d.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}
