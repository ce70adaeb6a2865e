package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Predefined service errors.
var (
	ErrAdminNotFound       = errors.New("admin not found")
	ErrAdminExists         = errors.New("admin already exists")
	ErrAlreadyBootstrapped = errors.New("an admin account already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidResetCode    = errors.New("invalid or expired reset code")
)

// ResetCodeExpiry is how long a password reset code stays valid.
const ResetCodeExpiry = 30 * time.Minute

// Service provides admin authentication operations.
type Service struct {
	jwtService *JWTService
	admins     AdminRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService *JWTService
	Admins     AdminRepository
	Logger     zerolog.Logger

	// Now is the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		jwtService: cfg.JWTService,
		admins:     cfg.Admins,
		logger:     cfg.Logger,
		now:        now,
	}
}

// Bootstrap creates the first admin account. It refuses to run once any
// account exists so an exposed endpoint cannot mint extra admins.
func (s *Service) Bootstrap(ctx context.Context, req *CredentialsRequest) (*Admin, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyBootstrapped
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now().UTC()
	admin := &Admin{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	s.logger.Info().Str("username", admin.Username).Msg("admin account bootstrapped")
	return admin, nil
}

// Login verifies credentials and issues an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *CredentialsRequest) (*TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up admin: %w", err)
	}

	ok, err := VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.generateToken(admin)
}

// RequestPasswordReset issues a reset code for the account and returns it
// for out-of-band delivery. Unknown usernames succeed silently so the
// endpoint does not reveal which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ResetRequest) (string, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return "", fmt.Errorf("validation error: %s", errs[0].Message)
	}

	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.logger.Warn().Str("username", req.Username).Msg("password reset for unknown account")
			return "", nil
		}
		return "", fmt.Errorf("looking up admin: %w", err)
	}

	code, err := GenerateResetCode()
	if err != nil {
		return "", err
	}
	codeHash, err := HashPassword(code)
	if err != nil {
		return "", fmt.Errorf("hashing reset code: %w", err)
	}

	expires := s.now().UTC().Add(ResetCodeExpiry)
	admin.ResetCodeHash = codeHash
	admin.ResetExpires = &expires
	admin.UpdatedAt = s.now().UTC()
	if err := s.admins.Update(ctx, admin); err != nil {
		return "", fmt.Errorf("storing reset code: %w", err)
	}

	// There is no mail channel; the code reaches the operator through the
	// service log.
	s.logger.Info().
		Str("username", admin.Username).
		Str("code", code).
		Time("expires", expires).
		Msg("password reset code issued")
	return code, nil
}

// ConfirmPasswordReset sets a new password given a valid reset code. The
// code is single use; it is cleared whether or not the update succeeds
// downstream.
func (s *Service) ConfirmPasswordReset(ctx context.Context, req *ResetConfirmRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return fmt.Errorf("validation error: %s", errs[0].Message)
	}

	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("looking up admin: %w", err)
	}

	if admin.ResetCodeHash == "" || admin.ResetExpires == nil {
		return ErrInvalidResetCode
	}
	if s.now().UTC().After(*admin.ResetExpires) {
		return ErrInvalidResetCode
	}

	ok, err := VerifyPassword(req.Code, admin.ResetCodeHash)
	if err != nil {
		return fmt.Errorf("verifying reset code: %w", err)
	}
	if !ok {
		return ErrInvalidResetCode
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin.PasswordHash = hash
	admin.ResetCodeHash = ""
	admin.ResetExpires = nil
	admin.UpdatedAt = s.now().UTC()
	if err := s.admins.Update(ctx, admin); err != nil {
		return fmt.Errorf("updating admin: %w", err)
	}

	s.logger.Info().Str("username", admin.Username).Msg("admin password reset")
	return nil
}

// ValidateAccessToken validates an access token and returns the admin's
// username.
func (s *Service) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

func (s *Service) generateToken(admin *Admin) (*TokenResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(admin)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		Username:    admin.Username,
	}, nil
}
