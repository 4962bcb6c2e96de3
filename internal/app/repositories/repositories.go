package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	AdminRepository       *AdminRepository
	CourseRepository      *CourseRepository
	SemesterFeeRepository *SemesterFeeRepository
	StudentRepository     *StudentRepository
	StudentFeeRepository  *StudentFeeRepository
	PaymentRepository     *PaymentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AdminRepository:       NewAdminRepository(db),
		CourseRepository:      NewCourseRepository(db),
		SemesterFeeRepository: NewSemesterFeeRepository(db),
		StudentRepository:     NewStudentRepository(db),
		StudentFeeRepository:  NewStudentFeeRepository(db),
		PaymentRepository:     NewPaymentRepository(db),
	}
}
