package models

// Admin defines an administrative user based on the 'admins' table
type Admin struct {
	ID         int64  `json:"id" db:"id" example:"1"`
	Email      string `json:"email" db:"email" example:"admin@campus.edu"`
	Password   string `json:"-" db:"password"` // bcrypt hash, never serialized
	SuperAdmin bool   `json:"superAdmin" db:"super_admin"`
}
