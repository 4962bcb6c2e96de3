package dto

// LoginRequest represents login credentials for both admins and students
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"3600"`
}

// AuthResponse represents a successful authentication response. Dashboard
// tells the client which dashboard to render for the principal's role.
type AuthResponse struct {
	Token     TokenResponse `json:"token"`
	User      interface{}   `json:"user"`
	Dashboard string        `json:"dashboard" example:"studentStyle"`
}

// CreateAdminRequest represents a request to create another admin account
type CreateAdminRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	SuperAdmin bool   `json:"superAdmin"`
}
