package models

import "time"

// Student defines a student based on the 'students' table
type Student struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Name             string    `json:"name" db:"name" example:"Ravi Kumar"`
	RollNo           string    `json:"rollNo" db:"roll_no" example:"BCA2023001"` // Unique, stored uppercase
	Email            string    `json:"email" db:"email" example:"ravi@campus.edu"`
	Phone            string    `json:"phone" db:"phone" example:"9876543210"`
	Password         string    `json:"-" db:"password"` // bcrypt hash, never serialized
	CourseCode       string    `json:"courseCode" db:"course_code" example:"BCA"`
	SessionStartYear int       `json:"sessionStartYear" db:"session_start_year" example:"2023"`
	SessionEndYear   int       `json:"sessionEndYear" db:"session_end_year" example:"2026"`
	CurrentSemester  int       `json:"currentSemester" db:"current_semester" example:"3"`
	IsConcession     bool      `json:"isConcession" db:"is_concession"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}
