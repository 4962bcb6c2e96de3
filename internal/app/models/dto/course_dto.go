package dto

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	CourseCode     string `json:"courseCode" binding:"required"`
	CourseName     string `json:"courseName" binding:"required"`
	TotalSemesters int    `json:"totalSemesters" binding:"required,min=1"`
	DurationYears  int    `json:"durationYears" binding:"required,min=1"`
}

// CreateSemesterFeeRequest represents fee structure creation data
type CreateSemesterFeeRequest struct {
	CourseCode string  `json:"courseCode" binding:"required"`
	Semester   int     `json:"semester" binding:"required,min=1"`
	TotalFees  float64 `json:"totalFees" binding:"required,gt=0"`
}

// UpdateSemesterFeeRequest updates the total fee of an existing structure row
type UpdateSemesterFeeRequest struct {
	CourseCode string  `json:"courseCode" binding:"required"`
	Semester   int     `json:"semester" binding:"required,min=1"`
	TotalFees  float64 `json:"totalFees" binding:"required,gt=0"`
}
