package model

import "time"

// User represents a user record in the database.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents a successful registration or login response.
// It carries both identity mechanisms: the bearer token and the
// server-side session id that is also delivered as a cookie.
type AuthResponse struct {
	Msg       string       `json:"msg"`
	Token     string       `json:"token"`
	SessionID string       `json:"sessionId"`
	User      UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses. The password
// hash is excluded by construction — it is not a field here.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileResponse represents the protected profile payload.
type ProfileResponse struct {
	Msg       string       `json:"msg"`
	User      UserResponse `json:"user"`
	SessionID string       `json:"sessionId"`
}

// SessionCheckResponse reports whether the request carries an active
// server-side session. This endpoint never reports an error condition.
type SessionCheckResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int64  `json:"userId,omitempty"`
	SessionID     string `json:"sessionId"`
}

// StatusResponse reports backend connectivity for the status endpoint.
type StatusResponse struct {
	Message   string `json:"message"`
	Database  string `json:"database"`
	Session   string `json:"session"`
	Timestamp string `json:"timestamp"`
}
