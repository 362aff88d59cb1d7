package models

import "encoding/json"

// Role is the closed set of user roles known to the backend services.
// Guest is synthetic: it is never returned by the auth service and exists so
// that role checks over anonymous visitors stay uniform.
type Role string

const (
	RoleGuest     Role = "Guest"
	RoleAttendee  Role = "Attendee"
	RoleOrganizer Role = "Organizer"
	RoleAdmin     Role = "Admin"
)

// Valid reports whether r is one of the roles the auth service can issue.
func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// User is the authenticated profile as returned by GET /api/auth/me.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
}

// UserSummary is the slice of the profile embedded in a SessionRecord.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// SessionRecord is the persisted unit of "being logged in": the token pair,
// the user summary and the absolute access-token expiry in milliseconds.
// ExpiresAt is zero when the token carried no parseable expiry claim.
type SessionRecord struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
	ExpiresAt    int64       `json:"expiresAt,omitempty"`
}

// Envelope is the {success, status_code, message, data} wrapper used by the
// auth, transaction and review services. Data stays raw so each call site can
// decode it into its own type.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// AuthResponse is the login/register payload of the auth service.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
}

// TokenPair is the payload of POST /api/auth/refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial profile patch. At least one field must be
// set; the auth client validates that before calling out.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
