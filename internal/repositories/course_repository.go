package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coursecraft/lms/internal/models"
)

// courseRepository stores courses with their lectures and enrolled students
type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a course, its lectures and its students in one transaction.
// course.ID must already be set.
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO courses (id, instructor_id, instructor_name, date, title, category, level, primary_language,
			subtitle, description, image, welcome_message, pricing, objectives, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		course.ID,
		course.InstructorID,
		course.InstructorName,
		course.Date,
		course.Title,
		course.Category,
		course.Level,
		course.PrimaryLanguage,
		course.Subtitle,
		course.Description,
		course.Image,
		course.WelcomeMessage,
		course.Pricing,
		course.Objectives,
		course.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	if err := insertLectures(ctx, tx, course.ID, course.Curriculum); err != nil {
		return err
	}
	if err := insertStudents(ctx, tx, course.ID, course.Students); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a course with its lectures in curriculum order and its students
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT id, instructor_id, instructor_name, date, title, category, level, primary_language,
			subtitle, description, image, welcome_message, pricing, objectives, is_published
		FROM courses
		WHERE id = ?
		LIMIT 1
	`

	course := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.InstructorID,
		&course.InstructorName,
		&course.Date,
		&course.Title,
		&course.Category,
		&course.Level,
		&course.PrimaryLanguage,
		&course.Subtitle,
		&course.Description,
		&course.Image,
		&course.WelcomeMessage,
		&course.Pricing,
		&course.Objectives,
		&course.IsPublished,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	if course.Curriculum, err = r.getLectures(ctx, id); err != nil {
		return nil, err
	}
	if course.Students, err = r.getStudents(ctx, id); err != nil {
		return nil, err
	}

	return course, nil
}

func (r *courseRepository) getLectures(ctx context.Context, courseID string) ([]models.Lecture, error) {
	query := `
		SELECT title, video_url, public_id, free_preview
		FROM course_lectures
		WHERE course_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lectures: %w", err)
	}
	defer rows.Close()

	lectures := []models.Lecture{}
	for rows.Next() {
		var lecture models.Lecture
		if err := rows.Scan(&lecture.Title, &lecture.VideoURL, &lecture.PublicID, &lecture.FreePreview); err != nil {
			return nil, fmt.Errorf("failed to scan lecture: %w", err)
		}
		lectures = append(lectures, lecture)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lectures, nil
}

func (r *courseRepository) getStudents(ctx context.Context, courseID string) ([]models.CourseStudent, error) {
	query := `
		SELECT student_id, student_name, student_email, paid_amount
		FROM course_students
		WHERE course_id = ?
		ORDER BY enrolled_at
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := []models.CourseStudent{}
	for rows.Next() {
		var student models.CourseStudent
		if err := rows.Scan(&student.StudentID, &student.StudentName, &student.StudentEmail, &student.PaidAmount); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return students, nil
}

// GetByInstructor retrieves the summaries of an instructor's courses, newest first
func (r *courseRepository) GetByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error) {
	query := `
		SELECT
			c.id, c.instructor_id, c.instructor_name, c.date, c.title, c.category, c.level,
			c.primary_language, c.image, c.pricing, c.is_published,
			COUNT(s.student_id) AS student_count
		FROM courses c
		LEFT JOIN course_students s ON s.course_id = c.id
		WHERE c.instructor_id = ?
		GROUP BY c.id
		ORDER BY c.date DESC
	`

	return r.querySummaries(ctx, query, instructorID)
}

// GetPublished retrieves published course summaries matching the filter.
// Each non-empty filter list is an IN condition.
func (r *courseRepository) GetPublished(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, error) {
	whereClauses := []string{"c.is_published = TRUE"}
	args := []any{}

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := make([]string, len(values))
		for i, value := range values {
			placeholders[i] = "?"
			args = append(args, value)
		}
		whereClauses = append(whereClauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	}
	addIn("c.category", filter.Categories)
	addIn("c.level", filter.Levels)
	addIn("c.primary_language", filter.PrimaryLanguages)

	query := fmt.Sprintf(`
		SELECT
			c.id, c.instructor_id, c.instructor_name, c.date, c.title, c.category, c.level,
			c.primary_language, c.image, c.pricing, c.is_published,
			COUNT(s.student_id) AS student_count
		FROM courses c
		LEFT JOIN course_students s ON s.course_id = c.id
		WHERE %s
		GROUP BY c.id
		ORDER BY %s
	`, strings.Join(whereClauses, " AND "), orderBy(filter.SortBy))

	return r.querySummaries(ctx, query, args...)
}

func orderBy(sort models.CourseSort) string {
	switch sort {
	case models.SortPriceHighToLow:
		return "c.pricing DESC, c.title ASC"
	case models.SortTitleAToZ:
		return "c.title ASC"
	case models.SortTitleZToA:
		return "c.title DESC"
	default:
		return "c.pricing ASC, c.title ASC"
	}
}

func (r *courseRepository) querySummaries(ctx context.Context, query string, args ...any) ([]models.CourseSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.CourseSummary{}
	for rows.Next() {
		var course models.CourseSummary
		err := rows.Scan(
			&course.ID,
			&course.InstructorID,
			&course.InstructorName,
			&course.Date,
			&course.Title,
			&course.Category,
			&course.Level,
			&course.PrimaryLanguage,
			&course.Image,
			&course.Pricing,
			&course.IsPublished,
			&course.StudentCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// Update replaces the landing fields and the curriculum of a course in one transaction.
// Enrolled students are kept.
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM courses WHERE id = ? FOR UPDATE", course.ID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("course not found")
	}
	if err != nil {
		return fmt.Errorf("failed to lock course: %w", err)
	}

	query := `
		UPDATE courses
		SET instructor_name = ?, date = ?, title = ?, category = ?, level = ?, primary_language = ?,
			subtitle = ?, description = ?, image = ?, welcome_message = ?, pricing = ?, objectives = ?,
			is_published = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		course.InstructorName,
		course.Date,
		course.Title,
		course.Category,
		course.Level,
		course.PrimaryLanguage,
		course.Subtitle,
		course.Description,
		course.Image,
		course.WelcomeMessage,
		course.Pricing,
		course.Objectives,
		course.IsPublished,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM course_lectures WHERE course_id = ?", course.ID); err != nil {
		return fmt.Errorf("failed to delete lectures: %w", err)
	}
	if err := insertLectures(ctx, tx, course.ID, course.Curriculum); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete deletes a course by ID; lectures and students go with it
func (r *courseRepository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM courses WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("course not found")
	}

	return nil
}

// HasPurchased checks if a student is enrolled in a course
func (r *courseRepository) HasPurchased(ctx context.Context, courseID, studentID string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM course_students WHERE course_id = ? AND student_id = ?)"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, courseID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return exists, nil
}

func insertLectures(ctx context.Context, db execer, courseID string, lectures []models.Lecture) error {
	if len(lectures) == 0 {
		return nil
	}

	placeholders := make([]string, len(lectures))
	args := make([]any, 0, len(lectures)*6)
	for i, lecture := range lectures {
		placeholders[i] = "(?, ?, ?, ?, ?, ?)"
		args = append(args, courseID, i, lecture.Title, lecture.VideoURL, lecture.PublicID, lecture.FreePreview)
	}

	query := fmt.Sprintf(`
		INSERT INTO course_lectures (course_id, position, title, video_url, public_id, free_preview)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert lectures: %w", err)
	}
	return nil
}

func insertStudents(ctx context.Context, db execer, courseID string, students []models.CourseStudent) error {
	if len(students) == 0 {
		return nil
	}

	placeholders := make([]string, len(students))
	args := make([]any, 0, len(students)*5)
	for i, student := range students {
		placeholders[i] = "(?, ?, ?, ?, ?)"
		args = append(args, courseID, student.StudentID, student.StudentName, student.StudentEmail, student.PaidAmount)
	}

	query := fmt.Sprintf(`
		INSERT INTO course_students (course_id, student_id, student_name, student_email, paid_amount)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert students: %w", err)
	}
	return nil
}
