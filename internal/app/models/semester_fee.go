package models

import "time"

// SemesterFee is the fee structure for one semester of a course.
// One row exists per (courseCode, semester) pair; it is the template the
// student fee ledger rows are created from.
type SemesterFee struct {
	ID         int64     `json:"id" db:"id"`
	CourseCode string    `json:"courseCode" db:"course_code" example:"BCA"`
	Semester   int       `json:"semester" db:"semester" example:"3"`
	TotalFees  float64   `json:"totalFees" db:"total_fees" example:"10000"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
