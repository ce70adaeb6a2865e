// Package auth provides admin authentication for the management API.
package auth

import "time"

// Admin represents an administrator account.
type Admin struct {
	ID            string     `json:"adminId"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	ResetCodeHash string     `json:"-"`
	ResetExpires  *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 10

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CredentialsRequest carries a username and password. It is used for both
// bootstrap and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the credentials request.
func (r *CredentialsRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Username == "" {
		errors = append(errors, FieldError{
			Field:   "username",
			Message: "username is required",
			Code:    "REQUIRED",
		})
	}
	if len(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password must be at least 10 characters",
			Code:    "TOO_SHORT",
		})
	}

	return errors
}

// ResetRequest asks for a password reset code for an account.
type ResetRequest struct {
	Username string `json:"username"`
}

// Validate validates the reset request.
func (r *ResetRequest) Validate() []FieldError {
	if r.Username == "" {
		return []FieldError{{
			Field:   "username",
			Message: "username is required",
			Code:    "REQUIRED",
		}}
	}
	return nil
}

// ResetConfirmRequest completes a password reset with a delivered code.
type ResetConfirmRequest struct {
	Username    string `json:"username"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// Validate validates the reset confirmation.
func (r *ResetConfirmRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Username == "" {
		errors = append(errors, FieldError{
			Field:   "username",
			Message: "username is required",
			Code:    "REQUIRED",
		})
	}
	if r.Code == "" {
		errors = append(errors, FieldError{
			Field:   "code",
			Message: "reset code is required",
			Code:    "REQUIRED",
		})
	}
	if len(r.NewPassword) < MinPasswordLength {
		errors = append(errors, FieldError{
			Field:   "newPassword",
			Message: "password must be at least 10 characters",
			Code:    "TOO_SHORT",
		})
	}

	return errors
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// Username identifies the authenticated admin.
	Username string `json:"username"`
}
