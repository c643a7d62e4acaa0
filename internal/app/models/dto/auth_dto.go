package dto

// LoginRequest is the body of POST /api/login. Credentials are checked
// against the fixed admin configuration, not arbitrary registrants.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo is the public view of the admin user.
type UserInfo struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
}

// UserResponse wraps the user object for /api/login and /api/me.
type UserResponse struct {
	User UserInfo `json:"user"`
}
