package dto

import "github.com/akshat/campuspay/internal/app/models"

// CreateStudentRequest represents student creation data submitted by an admin
type CreateStudentRequest struct {
	Name             string `json:"name" binding:"required"`
	RollNo           string `json:"rollNo" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required"`
	Password         string `json:"password" binding:"required,min=8"`
	CourseCode       string `json:"courseCode" binding:"required"`
	SessionStartYear int    `json:"sessionStartYear" binding:"required,min=2000"`
	SessionEndYear   int    `json:"sessionEndYear" binding:"required,min=2000"`
}

// UpdateStudentRequest represents a partial update of student details
type UpdateStudentRequest struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	CurrentSemester *int    `json:"currentSemester,omitempty"`
	IsConcession    *bool   `json:"isConcession,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// OverrideStudentFeeRequest is an admin correction of one ledger row
type OverrideStudentFeeRequest struct {
	Semester   int              `json:"semester" binding:"required,min=1"`
	AmountPaid float64          `json:"amountPaid" binding:"min=0"`
	Status     models.FeeStatus `json:"status" binding:"required,oneof=PENDING PARTIAL PAID"`
}

// StudentDetailResponse bundles a student with their payments and ledger rows
type StudentDetailResponse struct {
	Student  *models.Student      `json:"student"`
	Payments []*models.Payment    `json:"payments"`
	Fees     []*models.StudentFee `json:"fees"`
}
