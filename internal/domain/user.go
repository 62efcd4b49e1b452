package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// User represents an authenticated user account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsRoot       bool      `json:"is_root"`
	Role         Role      `json:"role"` // admin or member
	DisplayName  string    `json:"display_name"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	LastLoginAt  time.Time `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to first/last, then email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.FirstName != "" || u.LastName != "" {
		if u.FirstName == "" {
			return u.LastName
		}
		if u.LastName == "" {
			return u.FirstName
		}
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// Session represents an active user session with refresh token.
// Each device gets its own session - you can see what's connected.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`

	// Device information - structured data from client
	DeviceType    string `json:"device_type,omitempty"` // mobile, tablet, desktop, web
	Platform      string `json:"platform,omitempty"`    // iOS, Android, Windows, macOS, Linux, Web
	ClientName    string `json:"client_name,omitempty"` // ShelfLife Web, ShelfLife Mobile
	ClientVersion string `json:"client_version,omitempty"`
	DeviceName    string `json:"device_name,omitempty"` // user-set, optional
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DisplayName returns a human-readable description of the device.
func (s *Session) DisplayName() string {
	if s.DeviceName != "" {
		return s.DeviceName
	}
	if s.Platform != "" {
		return s.Platform
	}
	if s.ClientName != "" {
		if s.ClientVersion != "" {
			return s.ClientName + " " + s.ClientVersion
		}
		return s.ClientName
	}
	return "Unknown Device"
}
