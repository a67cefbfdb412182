package models

import (
	"strings"
	"time"
)

// Landing holds the landing page metadata of a course
type Landing struct {
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Level           string  `json:"level"`
	PrimaryLanguage string  `json:"primaryLanguage"`
	Subtitle        string  `json:"subtitle"`
	Description     string  `json:"description"`
	Image           string  `json:"image"`
	WelcomeMessage  string  `json:"welcomeMessage"`
	Pricing         float64 `json:"pricing"`
	Objectives      string  `json:"objectives"`
}

// MissingFields returns the JSON names of the landing fields that are empty.
// Pricing counts as empty when it is not positive.
func (l Landing) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	check("title", l.Title)
	check("category", l.Category)
	check("level", l.Level)
	check("primaryLanguage", l.PrimaryLanguage)
	check("subtitle", l.Subtitle)
	check("description", l.Description)
	check("image", l.Image)
	check("welcomeMessage", l.WelcomeMessage)
	if l.Pricing <= 0 {
		missing = append(missing, "pricing")
	}
	check("objectives", l.Objectives)

	return missing
}

// Course is the course aggregate: landing metadata, curriculum and ownership
type Course struct {
	ID             string    `json:"id"`
	InstructorID   string    `json:"instructorId"`
	InstructorName string    `json:"instructorName"`
	Date           time.Time `json:"date"`
	Landing
	Students    []CourseStudent `json:"students"`
	Curriculum  []Lecture       `json:"curriculum"`
	IsPublished bool            `json:"isPublished"`
}

// CourseStudent is a student enrolled in a course
type CourseStudent struct {
	StudentID    string  `json:"studentId"`
	StudentName  string  `json:"studentName"`
	StudentEmail string  `json:"studentEmail"`
	PaidAmount   float64 `json:"paidAmount"`
}

// CourseSummary is a course row in instructor and student listings
type CourseSummary struct {
	ID              string    `json:"id"`
	InstructorID    string    `json:"instructorId"`
	InstructorName  string    `json:"instructorName"`
	Date            time.Time `json:"date"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Level           string    `json:"level"`
	PrimaryLanguage string    `json:"primaryLanguage"`
	Image           string    `json:"image"`
	Pricing         float64   `json:"pricing"`
	StudentCount    int       `json:"studentCount"`
	IsPublished     bool      `json:"isPublished"`
}

// Revenue is the number of enrolled students times the course price
func (s CourseSummary) Revenue() float64 {
	return float64(s.StudentCount) * s.Pricing
}

// CourseRequest is the body of the create and update course endpoints
type CourseRequest struct {
	InstructorID   string     `json:"instructorId"`
	InstructorName string     `json:"instructorName"`
	Date           *time.Time `json:"date,omitempty"`
	Landing
	Students    []CourseStudent `json:"students"`
	Curriculum  []Lecture       `json:"curriculum"`
	IsPublished bool            `json:"isPublished"`
}

// CourseSort is the sort order of the student course listing
type CourseSort string

const (
	SortPriceLowToHigh CourseSort = "price-lowtohigh"
	SortPriceHighToLow CourseSort = "price-hightolow"
	SortTitleAToZ      CourseSort = "title-atoz"
	SortTitleZToA      CourseSort = "title-ztoa"
)

// ParseCourseSort maps a sortBy query value to a sort order, defaulting to price ascending
func ParseCourseSort(value string) CourseSort {
	switch CourseSort(value) {
	case SortPriceHighToLow, SortTitleAToZ, SortTitleZToA:
		return CourseSort(value)
	default:
		return SortPriceLowToHigh
	}
}

// CourseFilter holds the student course listing filters; empty slices match everything
type CourseFilter struct {
	Categories       []string
	Levels           []string
	PrimaryLanguages []string
	SortBy           CourseSort
}
