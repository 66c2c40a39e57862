package handler

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
	WhatsApp string `json:"whatsapp" binding:"omitempty,max=20"`
}

// LoginRequest accepts a username or an email in Login
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest is the body of PUT /user/profile
type UpdateProfileRequest struct {
	FullName      string `json:"full_name" binding:"required,max=100"`
	WhatsApp      string `json:"whatsapp" binding:"required,max=20"`
	PayoutMethod  string `json:"payout_method" binding:"required"`
	PayoutAccount string `json:"payout_account" binding:"required,max=50"`
}

// ChangePasswordRequest is the body of PUT /user/password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}
