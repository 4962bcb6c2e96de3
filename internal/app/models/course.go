package models

import "time"

// Course represents a course offered by the institution.
type Course struct {
	ID             int64     `json:"id" db:"id"`
	CourseCode     string    `json:"courseCode" db:"course_code" example:"BCA"` // Unique, stored uppercase
	CourseName     string    `json:"courseName" db:"course_name" example:"Bachelor of Computer Applications"`
	TotalSemesters int       `json:"totalSemesters" db:"total_semesters" example:"6"`
	DurationYears  int       `json:"durationYears" db:"duration_years" example:"3"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
